package slot

import (
	"context"
	"fmt"
	"math"
	"strings"

	"midnight_slots/internal/metrics"
	"midnight_slots/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Верхняя граница баланса, при которой wager*15 не переполняет int64.
// Расчёт спина её не переходит, см. validateWager.
const maxBalance = math.MaxInt64 / 16

// Число цифр целой части, больше которого ставка заведомо выше любого баланса
const maxWagerDigits = 19

// Spin выполняет спин: проверка ставки, списание, розыгрыш, выплата.
// Пока идёт спин, повторный вызов возвращает ErrSpinInProgress и ничего не меняет.
func (s *serv) Spin(ctx context.Context, wagerInput string) (*model.SpinResult, error) {
	if !s.spinning.CompareAndSwap(false, true) {
		metrics.RecordRejection(metrics.ReasonInProgress)
		return nil, ErrSpinInProgress
	}
	defer s.spinning.Store(false)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return nil, err
		}
	}

	wager, err := s.validateWager(wagerInput)
	if err != nil {
		return nil, err
	}

	// Принятый спин всегда доходит до расчёта
	ctx = context.WithoutCancel(ctx)

	before := s.balance
	var res *model.SpinResult

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Ставка списывается до розыгрыша и не возвращается
		balance := before - wager
		if err := s.persistBalance(txCtx, balance); err != nil {
			return err
		}

		outcome := s.draw()
		kind := EvaluateResult(outcome)
		payout := wager * kind.Multiplier()
		if payout > 0 {
			balance += payout
		}

		// Сохраняем всегда, даже при проигрыше
		if err := s.persistBalance(txCtx, balance); err != nil {
			return err
		}

		res = &model.SpinResult{
			Outcome:    outcome,
			Kind:       kind,
			Multiplier: kind.Multiplier(),
			Wager:      wager,
			Payout:     payout,
			Balance:    balance,
			Message:    resultMessage(kind, payout),
		}
		return nil
	})
	if err != nil {
		s.log.Error("spin settlement failed", zap.Int64("wager", wager), zap.Error(err))
		// Хранилище без транзакций могло успеть записать списание
		if rbErr := s.persistBalance(ctx, before); rbErr != nil {
			s.log.Error("restore balance failed", zap.Int64("balance", before), zap.Error(rbErr))
		}
		return nil, fmt.Errorf("settle spin: %w", err)
	}

	s.setBalance(res.Balance)
	s.message = res.Message
	res.Reveals = s.revealer.Schedule(res.Outcome)

	s.stats.Record(res.Wager, res.Payout, res.Kind)
	metrics.RecordSpin(res.Kind, res.Wager, res.Payout)
	s.log.Debug("spin settled",
		zap.Int64("wager", res.Wager),
		zap.String("result", res.Kind.String()),
		zap.Int64("payout", res.Payout),
		zap.Int64("balance", res.Balance),
	)

	return res, nil
}

// validateWager приводит ввод к целому вниз. Нечисловой ввод считается нулём.
func (s *serv) validateWager(input string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		d = decimal.Zero
	}

	// Порядок проверяем до Floor: экспонента вроде 1e-200000000 развернулась бы
	// в big.Int на сотни миллионов цифр под s.mtx
	switch digits := intDigits(d); {
	case d.Sign() <= 0 || digits <= 0:
		metrics.RecordRejection(metrics.ReasonInvalidWager)
		return 0, ErrInvalidWager
	case digits > maxWagerDigits:
		metrics.RecordRejection(metrics.ReasonInsufficient)
		return 0, ErrInsufficientBalance
	}

	d = d.Floor()
	if d.GreaterThan(decimal.NewFromInt(s.balance)) {
		metrics.RecordRejection(metrics.ReasonInsufficient)
		return 0, ErrInsufficientBalance
	}

	wager := d.IntPart()
	// Тройка 7 не должна вывести баланс за maxBalance: balance-wager+15*wager
	if (model.TripleHigh.Multiplier()-1)*wager > maxBalance-s.balance {
		metrics.RecordRejection(metrics.ReasonBalanceLimit)
		return 0, ErrBalanceLimit
	}
	return wager, nil
}

// intDigits число цифр целой части |d|; ноль и меньше для |d| < 1
func intDigits(d decimal.Decimal) int64 {
	return int64(d.NumDigits()) + int64(d.Exponent())
}

// draw независимый равновероятный символ на каждый барабан
func (s *serv) draw() model.Outcome {
	var outcome model.Outcome
	for i := range outcome {
		outcome[i] = model.Symbols[s.intn(len(model.Symbols))]
	}
	return outcome
}

// InitialReels символы на барабанах до первого спина
func (s *serv) InitialReels() model.Outcome {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.draw()
}

// State текущее состояние для клиента
func (s *serv) State() model.State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return model.State{
		Balance:  s.balance,
		Spinning: s.spinning.Load(),
		Message:  s.message,
		MaxBet:   max(1, s.balance),
		Stats:    s.stats.Stats(),
	}
}
