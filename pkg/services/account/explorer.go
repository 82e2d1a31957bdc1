package account

import (
	"context"

	"github.com/de-tools/cloudview-alerts/pkg/adapters"
	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/store/roster"
	"github.com/rs/zerolog"
)

type Explorer interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ResolveScope(ctx context.Context, scope string) ([]domain.Account, error)
}

type rosterExplorer struct {
	accounts []domain.Account
}

// NewExplorer loads the roster at path once; the returned explorer never
// touches the file again.
func NewExplorer(path string) (Explorer, error) {
	rows, err := roster.Load(path)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, adapters.MapStoreAccountRowToDomain(row))
	}
	return NewStaticExplorer(accounts), nil
}

func NewStaticExplorer(accounts []domain.Account) Explorer {
	return &rosterExplorer{accounts: accounts}
}

func (e *rosterExplorer) ListAccounts(_ context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, len(e.accounts))
	copy(accounts, e.accounts)
	return accounts, nil
}

func (e *rosterExplorer) ResolveScope(ctx context.Context, scope string) ([]domain.Account, error) {
	selected := ResolveScope(scope, e.accounts)

	zerolog.Ctx(ctx).Info().
		Str("scope", scope).
		Int("roster_size", len(e.accounts)).
		Int("selected", len(selected)).
		Msg("resolved report scope")

	return selected, nil
}
