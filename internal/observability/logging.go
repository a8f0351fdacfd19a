// Package observability builds the structured loggers the server runs on.
// Every connection pipeline derives a child logger carrying the connection
// id, transport, and correlation token, so one root logger covers the whole
// process.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DerekShute/muddle/internal/config"
)

// NewLogger builds the process root logger described by cfg. The console
// format is for running the server at a terminal while building worlds;
// json is for deployments that ship logs somewhere.
//
// Precondition: cfg must have passed config.Validate.
// Postcondition: Returns a ready logger or a non-nil error naming the bad
// setting.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	zapCfg, err := formatConfig(cfg.Format)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// formatConfig maps a configured format name to its base zap configuration.
// Both formats use ISO 8601 timestamps so connection lifetimes can be read
// off the log directly.
func formatConfig(format string) (zap.Config, error) {
	var zapCfg zap.Config
	switch format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", format)
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg, nil
}
