package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfig   = errors.New("configuration error")
	ErrAuth     = errors.New("authentication error")
	ErrUpstream = errors.New("upstream request failed")
	ErrSink     = errors.New("sink delivery failed")
)

// UpstreamRequestError describes a failed call to the evaluation or resource endpoint.
type UpstreamRequestError struct {
	Endpoint   string
	AccountID  string
	ControlID  string // empty for the evaluation listing
	Page       int
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *UpstreamRequestError) Error() string {
	msg := fmt.Sprintf("%s request for account %s", e.Endpoint, e.AccountID)
	if e.ControlID != "" {
		msg += fmt.Sprintf(" control %s", e.ControlID)
	}
	msg += fmt.Sprintf(" page %d failed", e.Page)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamRequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// SinkError describes a failed delivery to one sink.
type SinkError struct {
	Sink      string
	AccountID string
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink for account %s: %v", e.Sink, e.AccountID, e.Err)
}

func (e *SinkError) Unwrap() []error {
	return []error{ErrSink, e.Err}
}
