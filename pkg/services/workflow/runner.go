package workflow

import (
	"context"
	"errors"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/report"
	"github.com/de-tools/cloudview-alerts/pkg/services/sink"
	"github.com/rs/zerolog"
)

// Runner builds and delivers the report of a single account.
type Runner struct {
	builder    report.Builder
	dispatcher sink.Dispatcher
}

func NewRunner(builder report.Builder, dispatcher sink.Dispatcher) *Runner {
	return &Runner{
		builder:    builder,
		dispatcher: dispatcher,
	}
}

func (r *Runner) Run(ctx context.Context, account domain.Account) domain.AccountOutcome {
	logger := zerolog.Ctx(ctx).With().
		Str("account", account.AccountID).
		Str("cloud", account.Cloud).
		Logger()
	ctx = logger.WithContext(ctx)

	outcome := domain.AccountOutcome{Account: account}

	logger.Info().Msg("processing account")

	rep, err := r.builder.BuildAccountReport(ctx, account)
	if err != nil {
		logger.Error().Err(err).Msg("account skipped, no report delivered")
		outcome.Status = domain.AccountStatusFailed
		outcome.Error = errorString(err)
		return outcome
	}

	outcome.Records = len(rep.Records)
	outcome.Incomplete = rep.IncompleteCount()

	if err := r.dispatcher.Dispatch(ctx, rep); err != nil {
		outcome.Status = domain.AccountStatusPartial
		outcome.Error = errorString(err)
		if errors.Is(err, context.Canceled) {
			outcome.Status = domain.AccountStatusFailed
		}
		return outcome
	}

	outcome.Status = domain.AccountStatusFinished
	return outcome
}

func errorString(err error) *string {
	s := err.Error()
	return &s
}
