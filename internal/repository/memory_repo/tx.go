package memory_repo

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type txManager struct{}

// NewTxManager trm.Manager для хранилищ без транзакций: просто вызывает fn
func NewTxManager() trm.Manager {
	return txManager{}
}

func (txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (txManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
