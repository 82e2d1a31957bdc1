package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type loggingTransport struct {
	next     http.RoundTripper
	hostOnly bool
}

// NewLoggingTransport logs every outbound request with the logger carried
// by the request context. Query strings and headers are not logged.
func NewLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if _, ok := next.(*loggingTransport); ok {
		return next
	}
	return &loggingTransport{next: next}
}

// NewHostLoggingTransport is NewLoggingTransport without the request path,
// for targets such as chat webhooks whose path embeds a token.
func NewHostLoggingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, hostOnly: true}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	lc := zerolog.Ctx(req.Context()).With().
		Str("method", req.Method).
		Str("host", req.URL.Host)
	if !t.hostOnly {
		lc = lc.Str("path", req.URL.Path)
	}
	logger := lc.Logger()

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn().Err(err).Dur("duration", elapsed).Msg("http request failed")
		return nil, err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("http request")
	return resp, nil
}
