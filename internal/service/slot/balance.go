package slot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"midnight_slots/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoadBalance читает баланс из хранилища.
// Нет записи или запись битая — пишем стартовый баланс.
func (s *serv) LoadBalance(ctx context.Context) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return 0, err
	}
	return s.balance, nil
}

func (s *serv) loadLocked(ctx context.Context) error {
	raw, found, err := s.repo.GetBalance(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}

	if found {
		if value, ok := parseBalance(raw); ok {
			s.setBalance(value)
			s.loaded = true
			return nil
		}
		s.log.Warn("stored balance is corrupt, resetting", zap.String("raw", raw))
	}

	if err := s.persistBalance(ctx, StartBalance); err != nil {
		return err
	}
	s.setBalance(StartBalance)
	s.loaded = true
	return nil
}

// ResetBalance сбрасывает баланс на стартовый.
// Во время спина не выполняется.
func (s *serv) ResetBalance(ctx context.Context) (int64, error) {
	if !s.spinning.CompareAndSwap(false, true) {
		return 0, ErrSpinInProgress
	}
	defer s.spinning.Store(false)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.persistBalance(ctx, StartBalance); err != nil {
		return 0, err
	}
	s.setBalance(StartBalance)
	s.loaded = true
	s.message = "Balance reset"
	s.stats.Reset()

	s.log.Info("balance reset", zap.Int64("balance", StartBalance))
	return StartBalance, nil
}

// MaxBet ставка на весь баланс, но не меньше 1
func (s *serv) MaxBet() int64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return max(1, s.balance)
}

func (s *serv) persistBalance(ctx context.Context, value int64) error {
	if err := s.repo.SaveBalance(ctx, StorageKey, strconv.FormatInt(value, 10)); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	return nil
}

func (s *serv) setBalance(value int64) {
	s.balance = value
	metrics.SetBalance(value)
}

// parseBalance дробное значение округляется вниз, отрицательное считается битым.
// Принимает всё, что может записать расчёт спина, то есть до maxBalance включительно.
func parseBalance(raw string) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return 0, false
	}
	if intDigits(d) > maxWagerDigits {
		return 0, false
	}
	if intDigits(d) <= 0 {
		return 0, true
	}
	d = d.Floor()
	if d.GreaterThan(decimal.NewFromInt(maxBalance)) {
		return 0, false
	}
	return d.IntPart(), true
}
