package terminal

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"text/template"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
)

// Reporter prints the accounts selected by a scope.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type scopeView struct {
	Scope    string
	Accounts []domain.Account
}

func (c *Reporter) Handle(scope string, accounts []domain.Account) error {
	funcMap := template.FuncMap{
		// webhook URLs carry a token in the path
		"host": func(raw string) string {
			u, err := url.Parse(raw)
			if err != nil || u.Host == "" {
				return "-"
			}
			return u.Host
		},
	}

	tmpl := `{{len .Accounts}} account(s) in scope "{{.Scope}}"
{{range .Accounts}}
- {{.Cloud}} {{.AccountID}}
  BU: {{.BU}}
  Webhook: {{host .Webhook}}
{{end}}`

	t, err := template.New("accounts").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, scopeView{Scope: scope, Accounts: accounts})
}
