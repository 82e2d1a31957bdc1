package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/adapters"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	NameCSV = "csv"

	fileTimestampLayout = "20060102-150405"
)

// FileName is the per-account report file name for a run started at runAt.
func FileName(accountID string, runAt time.Time) string {
	return fmt.Sprintf("%s_CloudView_Report_%s.csv", accountID, runAt.Format(fileTimestampLayout))
}

// WriteCSV writes the header row followed by one row per failure record.
func WriteCSV(w io.Writer, report *domain.AccountReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(adapters.CSVHeader); err != nil {
		return err
	}
	for _, rec := range report.Records {
		if err := cw.Write(adapters.MapFailureRecordToCSVRow(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type csvSink struct {
	dir   string
	runAt time.Time
}

// NewCSVSink writes one file per account under dir. All files of a run share
// the runAt timestamp.
func NewCSVSink(dir string, runAt time.Time) Sink {
	return &csvSink{dir: dir, runAt: runAt}
}

func (s *csvSink) Name() string { return NameCSV }

func (s *csvSink) Deliver(ctx context.Context, report *domain.AccountReport) error {
	path := filepath.Join(s.dir, FileName(report.Account.AccountID, s.runAt))

	if err := s.write(path, report); err != nil {
		return &domain.SinkError{Sink: NameCSV, AccountID: report.Account.AccountID, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("csv report written")
	return nil
}

func (s *csvSink) write(path string, report *domain.AccountReport) (err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	if err := WriteCSV(f, report); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
