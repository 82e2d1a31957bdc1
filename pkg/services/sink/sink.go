package sink

import (
	"context"
	"errors"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Sink delivers a finished account report to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, report *domain.AccountReport) error
}

type Dispatcher interface {
	// Dispatch hands the report to every enabled sink in order. A failing sink
	// does not prevent the others from running; the joined *domain.SinkError
	// values are returned.
	Dispatch(ctx context.Context, report *domain.AccountReport) error
	Sinks() []string
}

type dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) Dispatcher {
	return &dispatcher{sinks: sinks}
}

func (d *dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

func (d *dispatcher) Dispatch(ctx context.Context, report *domain.AccountReport) error {
	logger := zerolog.Ctx(ctx)

	var errs []error
	for _, s := range d.sinks {
		err := s.Deliver(ctx, report)
		if err == nil {
			logger.Info().
				Str("sink", s.Name()).
				Str("account", report.Account.AccountID).
				Int("records", len(report.Records)).
				Msg("report delivered")
			continue
		}

		var sinkErr *domain.SinkError
		if !errors.As(err, &sinkErr) {
			sinkErr = &domain.SinkError{Sink: s.Name(), AccountID: report.Account.AccountID, Err: err}
		}
		logger.Error().
			Err(sinkErr).
			Str("sink", s.Name()).
			Str("account", report.Account.AccountID).
			Msg("report delivery failed")
		errs = append(errs, sinkErr)
	}
	return errors.Join(errs...)
}
