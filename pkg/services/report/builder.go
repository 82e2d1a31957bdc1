package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/evaluation"
	"github.com/rs/zerolog"
)

const DefaultRemediationBase = "https://www.qualys.com"

// RemediationLink returns the public documentation page for a control.
func RemediationLink(base, controlID string) string {
	if base == "" {
		base = DefaultRemediationBase
	}
	return fmt.Sprintf("%s/cloudview/controls/cid-%s.html", strings.TrimRight(base, "/"), controlID)
}

func NewFailureRecord(accountID string, control domain.Control, resourceIDs []string, base string, incomplete bool) domain.FailureRecord {
	if resourceIDs == nil {
		resourceIDs = []string{}
	}
	return domain.FailureRecord{
		AccountID:       accountID,
		ControlID:       control.ID,
		ControlName:     control.Name,
		FailedResources: control.FailedResources,
		ResourceIDs:     resourceIDs,
		RemediationLink: RemediationLink(base, control.ID),
		Incomplete:      incomplete,
	}
}

type Builder interface {
	// BuildAccountReport produces one record per failing control. An error is
	// returned only when the evaluation listing fails; resource listing
	// failures mark the affected record incomplete.
	BuildAccountReport(ctx context.Context, account domain.Account) (*domain.AccountReport, error)
}

type builder struct {
	explorer        evaluation.Explorer
	remediationBase string
	now             func() time.Time
}

func NewBuilder(explorer evaluation.Explorer, remediationBase string) Builder {
	return &builder{
		explorer:        explorer,
		remediationBase: remediationBase,
		now:             time.Now,
	}
}

func (b *builder) BuildAccountReport(ctx context.Context, account domain.Account) (*domain.AccountReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("account", account.AccountID).Logger()

	controls, err := b.explorer.ListFailingControls(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list failing controls for %s: %w", account, err)
	}

	report := &domain.AccountReport{
		Account:     account,
		Records:     make([]domain.FailureRecord, 0, len(controls)),
		GeneratedAt: b.now(),
	}

	for _, control := range controls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ids, err := b.explorer.ListFailedResources(ctx, account, control)
		incomplete := err != nil
		if incomplete {
			logger.Warn().
				Err(err).
				Str("control", control.ID).
				Int("failed_resources", control.FailedResources).
				Int("collected", len(ids)).
				Msg("resource list incomplete")
		}

		report.Records = append(report.Records,
			NewFailureRecord(account.AccountID, control, ids, b.remediationBase, incomplete))
	}

	logger.Info().
		Int("records", len(report.Records)).
		Int("incomplete", report.IncompleteCount()).
		Msg("account report built")

	return report, nil
}
