package workflow

import (
	"context"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/account"
	"github.com/rs/zerolog"
)

type Controller interface {
	// Run processes every account in scope sequentially, in roster order.
	// Per-account failures are recorded in the summary; the returned error is
	// only set when the run itself was interrupted.
	Run(ctx context.Context, scope string) (*domain.RunSummary, error)
}

type DefaultController struct {
	explorer account.Explorer
	runner   *Runner
	now      func() time.Time
}

func NewController(explorer account.Explorer, runner *Runner) *DefaultController {
	return &DefaultController{
		explorer: explorer,
		runner:   runner,
		now:      time.Now,
	}
}

func (ctrl *DefaultController) Run(ctx context.Context, scope string) (*domain.RunSummary, error) {
	logger := zerolog.Ctx(ctx).With().Str("scope", scope).Logger()
	ctx = logger.WithContext(ctx)

	summary := &domain.RunSummary{
		Scope:     scope,
		StartedAt: ctrl.now(),
		Outcomes:  []domain.AccountOutcome{},
	}
	defer func() { summary.FinishedAt = ctrl.now() }()

	accounts, err := ctrl.explorer.ResolveScope(ctx, scope)
	if err != nil {
		return summary, err
	}
	if len(accounts) == 0 {
		logger.Warn().Msg("no roster rows match the requested scope")
		return summary, nil
	}

	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).
				Int("processed", len(summary.Outcomes)).
				Int("selected", len(accounts)).
				Msg("run interrupted")
			return summary, err
		}
		summary.Outcomes = append(summary.Outcomes, ctrl.runner.Run(ctx, acc))
	}

	logger.Info().
		Int("accounts", len(summary.Outcomes)).
		Int("failed", summary.Failed()).
		Msg("report run finished")
	return summary, nil
}
