package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeQuiet      = "quiet"
	ModeDebug      = "debug"
	ModeProduction = "production"
)

// New builds a zap logger writing to stderr.
// debug is human-readable console output with coloured levels, production is
// JSON, and quiet (or empty) discards everything. An empty level keeps the
// mode's default.
func New(mode, level string) (*zap.Logger, error) {
	var config zap.Config

	switch mode {
	case "", ModeQuiet:
		return zap.NewNop(), nil
	case ModeDebug:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case ModeProduction:
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
