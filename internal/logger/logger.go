package logger

import (
	"fmt"

	"github.com/smallbiznis/rentledger/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application-wide zap logger from Config and replaces the
// globals. Output is JSON with ISO8601 timestamps; the level comes from
// LOG_LEVEL (debug, info, warn, error).
func New(appCfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	level := appCfg.LogLevel
	if level == "" {
		level = "info"
	}
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := zcfg.Build(zap.Fields(zap.String("app", appCfg.AppName)))
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}
