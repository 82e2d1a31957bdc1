package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
)

type TableConfig struct {
	CloudWidth   int
	AccountWidth int
	CountWidth   int
	StatusWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CloudWidth:   8,
		AccountWidth: 40,
		CountWidth:   10,
		StatusWidth:  10,
	}
}

// Reporter writes the run summary as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(summary *domain.RunSummary) error {
	funcMap := template.FuncMap{
		"formatRow": func(cloud, account string, records, incomplete interface{}, status string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %*v | %-*s |",
				c.config.CloudWidth, cloud,
				c.config.AccountWidth, account,
				c.config.CountWidth, records,
				c.config.CountWidth, incomplete,
				c.config.StatusWidth, status)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.CloudWidth+2),
				strings.Repeat("-", c.config.AccountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2))
		},
		"duration": func(s *domain.RunSummary) string {
			return s.FinishedAt.Sub(s.StartedAt).Round(100 * time.Millisecond).String()
		},
	}

	tmpl := `
CloudView CSA run for scope "{{.Scope}}"
Started: {{.StartedAt.Format "2006-01-02 15:04:05"}} ({{duration .}})
Accounts: {{len .Outcomes}}, failed: {{.Failed}}
{{if .Outcomes}}
{{separator}}
{{formatRow "Cloud" "Account" "Controls" "Incomplete" "Status"}}
{{separator}}
{{range .Outcomes}}{{formatRow .Account.Cloud .Account.AccountID .Records .Incomplete (print .Status)}}
{{end}}{{separator}}
{{range .Outcomes}}{{if .Error}}{{.Account.AccountID}}: {{.Error}}
{{end}}{{end}}{{else}}
No accounts matched the scope.
{{end}}`

	t, err := template.New("summary").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}
