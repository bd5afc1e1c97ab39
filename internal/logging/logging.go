// Package logging builds the zap logger used for diagnostics.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is json or console. Empty means json.
	Format string
	// Path is the log file. "stderr" and "stdout" are accepted; empty disables logging.
	Path string
}

// New builds a logger and installs it as the zap global.
// The returned func flushes buffered entries.
func New(opts Options) (*zap.Logger, func(), error) {
	if strings.TrimSpace(opts.Path) == "" {
		logger := zap.NewNop()
		return logger, func() {}, nil
	}
	level, err := zap.ParseAtomicLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch strings.ToLower(defaultString(opts.Format, "json")) {
	case "json":
		cfg.Encoding = "json"
	case "console", "text":
		cfg.Encoding = "console"
	default:
		return nil, nil, fmt.Errorf("invalid log format %q (use json or console)", opts.Format)
	}

	if opts.Path != "stderr" && opts.Path != "stdout" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	cfg.OutputPaths = []string{opts.Path}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	restore := zap.ReplaceGlobals(logger)
	return logger, func() {
		if serr := logger.Sync(); serr != nil {
			// Best-effort flush.
			_ = serr
		}
		restore()
	}, nil
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
