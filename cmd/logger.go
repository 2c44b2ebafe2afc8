package cmd

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/mint/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns the service logger and a flush func for shutdown.
func newLogger(cfg *config.Config) (ectologger.Logger, func(), error) {
	var (
		zapLogger *zap.Logger
		err       error
	)

	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		level, parseErr := zapcore.ParseLevel(cfg.LogLevel)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, parseErr)
		}

		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		zapConfig.InitialFields = map[string]any{"service": cfg.AppName}
		zapLogger, err = zapConfig.Build()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	flush := func() { _ = zapLogger.Sync() }
	return zapadapter.NewZapEctoLogger(zapLogger, nil), flush, nil
}
