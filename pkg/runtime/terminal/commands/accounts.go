package commands

import (
	"fmt"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/account"
	"github.com/spf13/cobra"
)

// ScopeReporter prints the accounts a scope resolves to.
type ScopeReporter interface {
	Handle(scope string, accounts []domain.Account) error
}

type AccountsCmd struct {
	scope    string
	session  *Session
	reporter ScopeReporter
}

func NewAccountsCmd(session *Session, reporter ScopeReporter) *cobra.Command {
	ac := &AccountsCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the roster accounts selected by a scope",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}

	cmd.Flags().StringVarP(&ac.scope, "report", "r", domain.AllAccounts, `Scope: "allAccounts", an account id or a business unit`)

	return cmd
}

func (ac *AccountsCmd) run(cmd *cobra.Command, _ []string) error {
	if ac.scope == "" {
		return fmt.Errorf("%w: --report <scope> must not be empty", ErrUsage)
	}

	explorer, err := account.NewExplorer(ac.session.Settings.Defaults.AccountMap)
	if err != nil {
		return err
	}

	accounts, err := explorer.ResolveScope(cmd.Context(), ac.scope)
	if err != nil {
		return err
	}
	return ac.reporter.Handle(ac.scope, accounts)
}
