package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/runtime/terminal/commands"
	"github.com/de-tools/cloudview-alerts/pkg/runtime/terminal/export"
	"github.com/de-tools/cloudview-alerts/pkg/services/config"
	"github.com/de-tools/cloudview-alerts/pkg/services/credentials"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	session    *commands.Session
	configPath string
	envFile    string
	errOutput  io.Writer
	logCloser  io.Closer
	now        func() time.Time
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	ErrOutput io.Writer
	// Credentials replaces the env, file and prompt provider chain.
	Credentials credentials.Provider
	Now         func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		session:   &commands.Session{Credentials: opts.Credentials},
		envFile:   ".env",
		errOutput: opts.ErrOutput,
		now:       opts.Now,
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context, args []string) error {
	defer func() { _ = cli.close() }()

	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := commands.NewReportCmd(cli.session, export.NewReporter(out))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(out)
	cmd.SetErr(cli.errOutput)

	cmd.PersistentFlags().StringVar(&cli.configPath, "config", "",
		fmt.Sprintf("Path to the YAML config file (default %s)", config.DefaultPath))
	cmd.PersistentPreRunE = cli.bootstrap

	cmd.AddCommand(commands.NewAccountsCmd(cli.session, NewReporter(out)))

	return cmd
}

// bootstrap loads .env and settings, then attaches the logger to the
// command context.
func (cli *CLI) bootstrap(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(cli.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to load %s: %v", domain.ErrConfig, cli.envFile, err)
	}

	settings, err := config.LoadSettings(cli.configPath)
	if err != nil {
		return err
	}

	logger, closer, err := NewLogger(settings.Logging, cli.errOutput)
	if err != nil {
		return err
	}
	cli.logCloser = closer
	cmd.SetContext(logger.WithContext(cmd.Context()))

	cli.session.Settings = settings
	cli.session.RunAt = cli.now()
	if cli.session.Credentials == nil {
		encoding := settings.Credentials.PasswordEncoding
		cli.session.Credentials = credentials.Chain(
			credentials.NewEnvProvider(encoding),
			credentials.NewFileProvider(settings.Credentials.File, settings.Credentials.Profile, encoding),
			credentials.NewPromptProvider(os.Stdin, cli.errOutput),
		)
	}

	logger.Debug().
		Str("config", cli.configPath).
		Str("roster", settings.Defaults.AccountMap).
		Str("api", settings.Defaults.APIURL).
		Msg("settings loaded")
	return nil
}

func (cli *CLI) close() error {
	if cli.logCloser == nil {
		return nil
	}
	err := cli.logCloser.Close()
	cli.logCloser = nil
	return err
}
