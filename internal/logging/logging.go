// Package logging builds the zap loggers shared by the binaries.
//
// Output always goes to stderr. The MCP server uses stdout as its transport,
// so nothing in this module may log there.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the given run mode.
//
// Mode "release" selects zap's JSON production configuration; any other mode
// selects the colored console development configuration. A non-empty level
// ("debug", "info", "warn", "error") overrides the mode's default level.
func New(mode, level string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level = lvl
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Sync flushes buffered entries, ignoring the error stderr returns on some
// platforms.
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
