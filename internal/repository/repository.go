package repository

import (
	"context"

	"midnight_slots/internal/model"
)

// BalanceRepository key-value хранилище баланса.
// Значение хранится как десятичная строка, разбор делает сервис.
type BalanceRepository interface {
	// GetBalance возвращает found=false, если записи по ключу нет
	GetBalance(ctx context.Context, key string) (value string, found bool, err error)
	SaveBalance(ctx context.Context, key string, value string) error
}

// StatsRepository статистика спинов текущей сессии
type StatsRepository interface {
	Stats() model.SessionStats
	Record(wager, payout int64, kind model.ResultKind)
	Reset()
}
