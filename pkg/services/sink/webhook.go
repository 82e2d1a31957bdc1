package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/adapters"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/store/client"
	"github.com/rs/zerolog"
)

const NameWebhook = "webhook"

type webhookSink struct {
	httpClient *http.Client
}

// NewWebhookSink posts each report to the webhook of its roster row.
func NewWebhookSink(timeout time.Duration) Sink {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	return &webhookSink{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: client.NewHostLoggingTransport(nil),
		},
	}
}

func (s *webhookSink) Name() string { return NameWebhook }

func (s *webhookSink) Deliver(ctx context.Context, report *domain.AccountReport) error {
	if err := s.post(ctx, report); err != nil {
		return &domain.SinkError{Sink: NameWebhook, AccountID: report.Account.AccountID, Err: err}
	}
	return nil
}

func (s *webhookSink) post(ctx context.Context, report *domain.AccountReport) error {
	logger := zerolog.Ctx(ctx)

	if report.Account.Webhook == "" {
		return errors.New("no webhook configured for account")
	}

	body, err := json.Marshal(adapters.MapAccountReportToWebhookMessage(report))
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, report.Account.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return redactURLError(err, req.URL.Host)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(excerpt))
	}
	return nil
}

// redactURLError drops the webhook path, which embeds the token, from
// transport errors.
func redactURLError(err error, host string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s failed: %w", ue.Op, host, ue.Err)
	}
	return fmt.Errorf("request to %s failed", host)
}
