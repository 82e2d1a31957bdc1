package account

import "github.com/de-tools/cloudview-alerts/pkg/models/domain"

// ResolveScope selects the roster entries a run applies to. allAccounts
// selects everything; any other token selects each row whose account id or
// business unit equals it, in roster order. A row is selected at most once.
func ResolveScope(scope string, roster []domain.Account) []domain.Account {
	selected := make([]domain.Account, 0, len(roster))
	if scope == domain.AllAccounts {
		return append(selected, roster...)
	}

	for _, acc := range roster {
		switch {
		case acc.AccountID == scope:
			selected = append(selected, acc)
		case acc.BU == scope:
			selected = append(selected, acc)
		}
	}
	return selected
}
