package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// Драйверы хранилища баланса
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type SlotConfig interface {
	FrameInterval() time.Duration
	ReelStops() []time.Duration
	PopDuration() time.Duration
}

type HTTPConfig interface {
	Address() string
}

type StorageConfig interface {
	Driver() string
}

type PGConfig interface {
	DSN() string
}

type RedisConfig interface {
	Address() string
	Password() string
	DB() int
}

type LogConfig interface {
	Level() string
}
