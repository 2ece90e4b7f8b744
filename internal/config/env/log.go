package env

import (
	"os"

	"midnight_slots/internal/config"

	"go.uber.org/zap/zapcore"
)

const (
	logLevelEnvName = "LOG_LEVEL"
)

type logConfig struct {
	level string
}

func NewLogConfig() (config.LogConfig, error) {
	level := os.Getenv(logLevelEnvName)
	if len(level) == 0 {
		level = zapcore.InfoLevel.String()
	}

	if _, err := zapcore.ParseLevel(level); err != nil {
		return nil, err
	}

	return &logConfig{
		level: level,
	}, nil
}

func (cfg *logConfig) Level() string {
	return cfg.level
}
