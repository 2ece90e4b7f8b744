package env

import (
	"fmt"
	"os"
	"strings"

	"midnight_slots/internal/config"
)

const (
	storageDriverEnvName = "STORAGE_DRIVER"
)

type storageConfig struct {
	driver string
}

// NewStorageConfig драйвер хранилища баланса, по умолчанию память процесса
func NewStorageConfig() (config.StorageConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv(storageDriverEnvName)))
	if len(driver) == 0 {
		driver = config.StorageMemory
	}

	switch driver {
	case config.StorageMemory, config.StorageRedis, config.StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	return &storageConfig{
		driver: driver,
	}, nil
}

func (cfg *storageConfig) Driver() string {
	return cfg.driver
}
