package redis_repo

import (
	"context"
	"errors"

	"midnight_slots/internal/repository"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "midnight_slots:"

type repo struct {
	rdb *redis.Client
}

func NewBalanceRepository(rdb *redis.Client) repository.BalanceRepository {
	return &repo{
		rdb: rdb,
	}
}

// GetBalance - чтение строки баланса по ключу
// redis.Nil означает, что записи нет
func (r *repo) GetBalance(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// SaveBalance - запись без TTL, баланс живёт пока его не сбросят
func (r *repo) SaveBalance(ctx context.Context, key string, value string) error {
	return r.rdb.Set(ctx, keyPrefix+key, value, 0).Err()
}
