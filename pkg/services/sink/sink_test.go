package sink

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var runAt = time.Date(2026, 5, 4, 13, 2, 1, 0, time.UTC)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func testReport(webhook string) *domain.AccountReport {
	return &domain.AccountReport{
		Account: domain.Account{Cloud: "aws", AccountID: "111", BU: "fin", Webhook: webhook},
		Records: []domain.FailureRecord{
			{
				AccountID:       "111",
				ControlID:       "1",
				ControlName:     "S3 Public",
				FailedResources: 2,
				ResourceIDs:     []string{"r1", "r3"},
				RemediationLink: "https://www.qualys.com/cloudview/controls/cid-1.html",
			},
			{
				AccountID:       "111",
				ControlID:       "2",
				ControlName:     "Root MFA",
				FailedResources: 1,
				ResourceIDs:     []string{"root"},
				RemediationLink: "https://www.qualys.com/cloudview/controls/cid-2.html",
			},
		},
		GeneratedAt: runAt,
	}
}

type stubSink struct {
	name  string
	err   error
	calls int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(_ context.Context, _ *domain.AccountReport) error {
	s.calls++
	return s.err
}

func TestDispatcher_SinksRunIndependently(t *testing.T) {
	failing := &stubSink{name: "first", err: errors.New("disk full")}
	ok := &stubSink{name: "second"}

	err := NewDispatcher(failing, ok).Dispatch(testContext(t), testReport(""))

	require.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.ErrorIs(t, err, domain.ErrSink)

	var sinkErr *domain.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, "first", sinkErr.Sink)
	assert.Equal(t, "111", sinkErr.AccountID)
}

func TestDispatcher_NoErrors(t *testing.T) {
	d := NewDispatcher(&stubSink{name: "a"}, &stubSink{name: "b"})

	assert.NoError(t, d.Dispatch(testContext(t), testReport("")))
	assert.Equal(t, []string{"a", "b"}, d.Sinks())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "111_CloudView_Report_20260504-130201.csv", FileName("111", runAt))
}

func TestCSVSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	s := NewCSVSink(dir, runAt)

	require.NoError(t, s.Deliver(testContext(t), testReport("")))

	data, err := os.ReadFile(filepath.Join(dir, "111_CloudView_Report_20260504-130201.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Account,Control Name,Number of Failed Resources,Failed Resource List,Remediation Information Link", lines[0])
	assert.Equal(t, `111,S3 Public,2,"r1, r3",https://www.qualys.com/cloudview/controls/cid-1.html`, lines[1])
	assert.Equal(t, "111,Root MFA,1,root,https://www.qualys.com/cloudview/controls/cid-2.html", lines[2])
}

func TestCSVSink_HeaderOnlyForEmptyReport(t *testing.T) {
	dir := t.TempDir()
	report := &domain.AccountReport{Account: domain.Account{AccountID: "222"}}

	require.NoError(t, NewCSVSink(dir, runAt).Deliver(testContext(t), report))

	data, err := os.ReadFile(filepath.Join(dir, FileName("222", runAt)))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestCSVSink_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewCSVSink(filepath.Join(blocker, "reports"), runAt).Deliver(testContext(t), testReport(""))

	var sinkErr *domain.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Equal(t, NameCSV, sinkErr.Sink)
}

func TestWebhookSink(t *testing.T) {
	hook := testutil.NewFakeWebhook(t)

	t.Run("posts header and one attachment per record", func(t *testing.T) {
		err := NewWebhookSink(time.Second).Deliver(testContext(t), testReport(hook.URL("/hooks/a")))

		require.NoError(t, err)
		msgs := hook.Messages("/hooks/a")
		require.Len(t, msgs, 1)
		assert.Equal(t, "CloudView CSA Results for 111", msgs[0].Text)
		require.Len(t, msgs[0].Attachments, 2)
		assert.Contains(t, msgs[0].Attachments[0].Text, "Failed Resources: \n r1, r3")
	})

	t.Run("non-2xx status is a sink error", func(t *testing.T) {
		hook.RespondWith(http.StatusForbidden)
		t.Cleanup(func() { hook.RespondWith(http.StatusOK) })

		err := NewWebhookSink(time.Second).Deliver(testContext(t), testReport(hook.URL("/hooks/b")))

		assert.ErrorIs(t, err, domain.ErrSink)
		assert.Contains(t, err.Error(), "unexpected status 403")
	})

	t.Run("transport error does not expose the webhook token", func(t *testing.T) {
		target := "http://127.0.0.1:1/services/T000/B000/XOXBTOKEN"

		err := NewWebhookSink(time.Second).Deliver(testContext(t), testReport(target))

		require.ErrorIs(t, err, domain.ErrSink)
		assert.Contains(t, err.Error(), "127.0.0.1:1")
		assert.NotContains(t, err.Error(), "XOXBTOKEN")
		assert.NotContains(t, err.Error(), "/services/")
	})

	t.Run("missing webhook", func(t *testing.T) {
		err := NewWebhookSink(time.Second).Deliver(testContext(t), testReport(""))

		assert.ErrorIs(t, err, domain.ErrSink)
	})
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestArchiveSink(t *testing.T) {
	cfg := ArchiveConfig{Bucket: "security-reports", Prefix: "cloudview/daily"}

	t.Run("uploads csv under prefix", func(t *testing.T) {
		uploader := new(MockUploader)
		var body string
		uploader.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "security-reports" &&
				*in.Key == "cloudview/daily/111_CloudView_Report_20260504-130201.csv"
		})).Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
			body = string(data)
		}).Return(&s3.PutObjectOutput{}, nil)

		err := NewArchiveSink(uploader, cfg, runAt).Deliver(testContext(t), testReport(""))

		require.NoError(t, err)
		uploader.AssertExpectations(t)
		assert.True(t, strings.HasPrefix(body, "Account,Control Name"))
		assert.Equal(t, 3, strings.Count(body, "\n"))
	})

	t.Run("upload failure", func(t *testing.T) {
		uploader := new(MockUploader)
		uploader.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		err := NewArchiveSink(uploader, cfg, runAt).Deliver(testContext(t), testReport(""))

		var sinkErr *domain.SinkError
		require.ErrorAs(t, err, &sinkErr)
		assert.Equal(t, NameArchive, sinkErr.Sink)
		assert.Contains(t, err.Error(), "access denied")
	})
}
