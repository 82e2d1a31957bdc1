package evaluation

import (
	"context"

	"github.com/de-tools/cloudview-alerts/pkg/adapters"
	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/pagination"
	"github.com/rs/zerolog"
)

// CloudViewClient is the subset of the vendor API used to walk evaluations.
type CloudViewClient interface {
	ListEvaluations(ctx context.Context, cloud, accountID string, pageNo int) (*api.EvaluationPage, error)
	ListControlResources(ctx context.Context, cloud, accountID, controlID string, pageNo int) (*api.ResourcePage, error)
}

type Explorer interface {
	// ListFailingControls returns the account's controls with at least one
	// failed resource, in listing order.
	ListFailingControls(ctx context.Context, account domain.Account) ([]domain.Control, error)
	// ListFailedResources returns the ids of resources that failed the control.
	// On error the ids gathered from earlier pages are returned with it.
	ListFailedResources(ctx context.Context, account domain.Account, control domain.Control) ([]string, error)
}

type explorer struct {
	client CloudViewClient
}

func NewExplorer(client CloudViewClient) Explorer {
	return &explorer{client: client}
}

func (e *explorer) ListFailingControls(ctx context.Context, account domain.Account) ([]domain.Control, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("account", account.AccountID).
		Str("cloud", account.Cloud).
		Logger()
	ctx = logger.WithContext(ctx)

	fetch := func(ctx context.Context, pageNo int) (pagination.Page[api.Control], error) {
		page, err := e.client.ListEvaluations(ctx, account.Cloud, account.AccountID, pageNo)
		if err != nil {
			return pagination.Page[api.Control]{}, err
		}
		return pagination.Page[api.Control]{
			Items:      page.Content,
			Last:       page.Last,
			TotalPages: page.TotalPages,
		}, nil
	}
	extract := func(c api.Control) (domain.Control, bool) {
		control := adapters.MapApiControlToDomain(c)
		return control, control.Failing()
	}

	controls, err := pagination.Collect(ctx, fetch, extract)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list evaluations")
		return nil, err
	}

	logger.Info().Int("failing_controls", len(controls)).Msg("evaluations listed")
	return controls, nil
}

func (e *explorer) ListFailedResources(
	ctx context.Context,
	account domain.Account,
	control domain.Control,
) ([]string, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("account", account.AccountID).
		Str("control", control.ID).
		Logger()
	ctx = logger.WithContext(ctx)

	fetch := func(ctx context.Context, pageNo int) (pagination.Page[api.Resource], error) {
		page, err := e.client.ListControlResources(ctx, account.Cloud, account.AccountID, control.ID, pageNo)
		if err != nil {
			return pagination.Page[api.Resource]{}, err
		}
		return pagination.Page[api.Resource]{
			Items:      page.Content,
			Last:       page.Last,
			TotalPages: page.TotalPages,
		}, nil
	}
	extract := func(r api.Resource) (string, bool) {
		res := adapters.MapApiResourceToDomain(r)
		return res.ID, res.Failed()
	}

	ids, err := pagination.Collect(ctx, fetch, extract)
	if err != nil {
		logger.Warn().Err(err).Int("collected", len(ids)).Msg("resource listing stopped early")
		return ids, err
	}

	logger.Debug().Int("failed_resources", len(ids)).Msg("resources listed")
	return ids, nil
}
