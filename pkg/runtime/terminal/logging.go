package terminal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/de-tools/cloudview-alerts/pkg/models/domain"
	"github.com/de-tools/cloudview-alerts/pkg/services/config"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. The returned closer releases the
// optional log file and is never nil.
func NewLogger(cfg config.Logging, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var output io.Writer = out
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("%w: unknown logging.format %q", domain.ErrConfig, cfg.Format)
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("%w: failed to create log directory: %v", domain.ErrConfig, err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("%w: failed to open log file: %v", domain.ErrConfig, err)
		}
		output = zerolog.MultiLevelWriter(output, f)
		closer = f
	}

	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("%w: unknown logging.level %q", domain.ErrConfig, level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
