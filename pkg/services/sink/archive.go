package sink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/rs/zerolog"
)

const NameArchive = "s3"

// Uploader is the part of the S3 client used by the archive sink.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ArchiveConfig struct {
	Bucket  string
	Prefix  string
	Region  string
	Profile string
}

// NewS3Uploader builds an S3 client from the default AWS credential chain,
// optionally pinned to a shared config profile and region.
func NewS3Uploader(ctx context.Context, cfg ArchiveConfig) (Uploader, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS config: %v", domain.ErrConfig, err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

type archiveSink struct {
	uploader Uploader
	bucket   string
	prefix   string
	runAt    time.Time
}

// NewArchiveSink uploads the same CSV rendering the csv sink writes to disk.
func NewArchiveSink(uploader Uploader, cfg ArchiveConfig, runAt time.Time) Sink {
	return &archiveSink{
		uploader: uploader,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		runAt:    runAt,
	}
}

func (s *archiveSink) Name() string { return NameArchive }

func (s *archiveSink) Key(accountID string) string {
	return path.Join(s.prefix, FileName(accountID, s.runAt))
}

func (s *archiveSink) Deliver(ctx context.Context, report *domain.AccountReport) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		return &domain.SinkError{Sink: NameArchive, AccountID: report.Account.AccountID, Err: err}
	}

	key := s.Key(report.Account.AccountID)
	_, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return &domain.SinkError{
			Sink:      NameArchive,
			AccountID: report.Account.AccountID,
			Err:       fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err),
		}
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", s.bucket).Str("key", key).Msg("csv report archived")
	return nil
}
