package commands

import (
	"context"
	"errors"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/services/config"
	"github.com/de-tools/cloudview-alerts/pkg/services/credentials"
	"github.com/de-tools/cloudview-alerts/pkg/services/sink"
)

var ErrUsage = errors.New("usage error")

// Session is filled in by the root command before any subcommand runs.
type Session struct {
	Settings    *config.Settings
	Credentials credentials.Provider
	// RunAt stamps every file produced by the run.
	RunAt       time.Time
	NewUploader func(ctx context.Context, cfg sink.ArchiveConfig) (sink.Uploader, error)
}
