package commands

import (
	"fmt"

	"github.com/de-tools/cloudview-alerts/pkg/runtime/terminal/export"
	"github.com/de-tools/cloudview-alerts/pkg/services/account"
	"github.com/de-tools/cloudview-alerts/pkg/services/evaluation"
	"github.com/de-tools/cloudview-alerts/pkg/services/report"
	"github.com/de-tools/cloudview-alerts/pkg/services/sink"
	"github.com/de-tools/cloudview-alerts/pkg/services/workflow"
	"github.com/de-tools/cloudview-alerts/pkg/store/client"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	scope    string
	csv      bool
	slack    bool
	session  *Session
	reporter *export.Reporter
}

// NewReportCmd builds the report command. It is the root command of the CLI.
func NewReportCmd(session *Session, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "cloudview-alerts",
		Short: "Report failing CloudView CSA controls per cloud account",
		Long: `Walks the CloudView evaluation results of every account in scope and
delivers one report per account as a CSV file and/or a chat webhook post.

The scope is either "allAccounts", an account id or a business unit.`,
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.scope, "report", "r", "", `Scope: "allAccounts", an account id or a business unit`)
	cmd.Flags().BoolVarP(&rc.csv, "csv", "c", false, "Write a CSV file per account")
	cmd.Flags().BoolVarP(&rc.slack, "slack", "s", false, "Post results to the account's webhook")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	if rc.scope == "" {
		return fmt.Errorf("%w: --report <scope> is required", ErrUsage)
	}
	if !rc.csv && !rc.slack {
		return fmt.Errorf("%w: enable at least one of --csv or --slack", ErrUsage)
	}

	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)
	settings := rc.session.Settings

	creds, err := rc.session.Credentials.Credentials(ctx)
	if err != nil {
		return err
	}

	accounts, err := account.NewExplorer(settings.Defaults.AccountMap)
	if err != nil {
		return err
	}

	api, err := client.NewClient(client.Config{
		BaseURL:     settings.Defaults.APIURL,
		Credentials: creds,
		PageSize:    settings.Defaults.PageSize,
		Timeout:     settings.Defaults.RequestTimeout,
	})
	if err != nil {
		return err
	}

	sinks, err := rc.sinks(cmd)
	if err != nil {
		return err
	}
	dispatcher := sink.NewDispatcher(sinks...)

	logger.Info().
		Str("scope", rc.scope).
		Strs("sinks", dispatcher.Sinks()).
		Msg("starting report run")

	builder := report.NewBuilder(evaluation.NewExplorer(api), settings.Defaults.RemediationURL)
	ctrl := workflow.NewController(accounts, workflow.NewRunner(builder, dispatcher))

	summary, runErr := ctrl.Run(ctx, rc.scope)
	if summary != nil {
		if err := rc.reporter.Handle(summary); err != nil {
			logger.Warn().Err(err).Msg("failed to print run summary")
		}
	}
	return runErr
}

func (rc *ReportCmd) sinks(cmd *cobra.Command) ([]sink.Sink, error) {
	settings := rc.session.Settings

	var sinks []sink.Sink
	if rc.csv {
		sinks = append(sinks, sink.NewCSVSink(settings.Reports.Dir, rc.session.RunAt))

		if settings.ArchiveEnabled() {
			archive := sink.ArchiveConfig{
				Bucket:  settings.Reports.Bucket,
				Prefix:  settings.Reports.Prefix,
				Region:  settings.Reports.Region,
				Profile: settings.Reports.Profile,
			}
			newUploader := rc.session.NewUploader
			if newUploader == nil {
				newUploader = sink.NewS3Uploader
			}
			uploader, err := newUploader(cmd.Context(), archive)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink.NewArchiveSink(uploader, archive, rc.session.RunAt))
		}
	}
	if rc.slack {
		sinks = append(sinks, sink.NewWebhookSink(settings.Defaults.RequestTimeout))
	}
	return sinks, nil
}
