package memory_repo

import (
	"context"
	"sync"

	"midnight_slots/internal/repository"
)

type repo struct {
	mtx    sync.RWMutex
	values map[string]string
}

// NewBalanceRepository хранилище в памяти процесса, живёт до рестарта
func NewBalanceRepository() repository.BalanceRepository {
	return &repo{
		values: make(map[string]string),
	}
}

func (r *repo) GetBalance(_ context.Context, key string) (string, bool, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	value, ok := r.values[key]
	return value, ok, nil
}

func (r *repo) SaveBalance(_ context.Context, key string, value string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.values[key] = value
	return nil
}
