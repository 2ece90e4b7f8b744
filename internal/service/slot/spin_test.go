package slot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"midnight_slots/internal/model"
	"midnight_slots/internal/repository/memory_repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func storedBalance(t *testing.T, s *serv) string {
	t.Helper()
	raw, found, err := s.repo.GetBalance(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, found)
	return raw
}

func TestSpin_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		wager   string
		draw    []model.Symbol
		kind    model.ResultKind
		class   model.Classification
		payout  int64
		balance int64
		message string
	}{
		{"three cherries", "100", []model.Symbol{model.Cherry, model.Cherry, model.Cherry}, model.TripleStandard, model.BigWin, 500, 1400, "Big Win! You won $500"},
		{"three sevens", "100", []model.Symbol{model.Seven, model.Seven, model.Seven}, model.TripleHigh, model.BigWin, 1500, 2400, "Big Win! You won $1500"},
		{"pair", "50", []model.Symbol{model.Lemon, model.Lemon, model.Star}, model.Pair, model.SmallWin, 100, 1050, "Win! You won $100"},
		{"lose", "50", []model.Symbol{model.Cherry, model.Bell, model.Star}, model.NoMatch, model.Lose, 0, 950, "No win — better luck next spin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestServ(memory_repo.NewBalanceRepository(), fixedDraws(tt.draw...))
			_, err := s.LoadBalance(ctx)
			require.NoError(t, err)

			res, err := s.Spin(ctx, tt.wager)
			require.NoError(t, err)

			assert.Equal(t, model.Outcome{tt.draw[0], tt.draw[1], tt.draw[2]}, res.Outcome)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.class, res.Kind.Classification())
			assert.Equal(t, tt.payout, res.Payout)
			assert.Equal(t, tt.balance, res.Balance)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, tt.payout > 0, res.IsWin())
			assert.Equal(t, tt.class == model.BigWin, res.IsBigWin())

			assert.Equal(t, strconv.FormatInt(tt.balance, 10), storedBalance(t, s))
			state := s.State()
			assert.Equal(t, tt.balance, state.Balance)
			assert.False(t, state.Spinning)
			assert.Equal(t, tt.message, state.Message)
			assert.Equal(t, 1, state.Stats.TotalSpins)
			assert.Equal(t, tt.payout, state.Stats.TotalPaid)

			require.Len(t, res.Reveals, model.Reels)
			for i, rv := range res.Reveals {
				assert.Equal(t, i, rv.Reel)
				assert.Equal(t, res.Outcome[i], rv.Symbol)
				assert.Equal(t, defaultStops[i], rv.After)
			}
			assert.True(t, res.Reveals[model.Reels-1].Final)
		})
	}
}

func TestSpin_RejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name  string
		wager string
		err   error
	}{
		{"zero", "0", ErrInvalidWager},
		{"negative", "-5", ErrInvalidWager},
		{"fraction below one", "0.9", ErrInvalidWager},
		{"not a number", "abc", ErrInvalidWager},
		{"empty", "", ErrInvalidWager},
		{"over balance", "2000", ErrInsufficientBalance},
		{"just over balance", "1001", ErrInsufficientBalance},
		{"huge", "1e30", ErrInsufficientBalance},
		{"tiny exponent", "1e-200000000", ErrInvalidWager},
		{"huge exponent", "1e200000000", ErrInsufficientBalance},
		{"long fraction below one", "0." + strings.Repeat("9", 4000), ErrInvalidWager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestServ(memory_repo.NewBalanceRepository(), nil)
			_, err := s.LoadBalance(ctx)
			require.NoError(t, err)

			res, err := s.Spin(ctx, tt.wager)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.err)
			assert.NotEmpty(t, RejectMessage(err))

			state := s.State()
			assert.Equal(t, StartBalance, state.Balance)
			assert.False(t, state.Spinning)
			assert.Empty(t, state.Message)
			assert.Zero(t, state.Stats.TotalSpins)
			assert.Equal(t, "1000", storedBalance(t, s))
		})
	}
}

func TestSpin_ExtremeExponentIsCheap(t *testing.T) {
	ctx := context.Background()
	s := newTestServ(memory_repo.NewBalanceRepository(), nil)
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Spin(ctx, "1e-2000000000")
	assert.ErrorIs(t, err, ErrInvalidWager)
	_, err = s.Spin(ctx, "1e2000000000")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSpin_BalanceLimit(t *testing.T) {
	ctx := context.Background()
	mem := memory_repo.NewBalanceRepository()
	start := int64(maxBalance - 14*100)
	require.NoError(t, mem.SaveBalance(ctx, StorageKey, strconv.FormatInt(start, 10)))

	s := newTestServ(mem, fixedDraws(model.Seven, model.Seven, model.Seven))
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	// 101 на тройке 7 перешло бы границу
	_, err = s.Spin(ctx, "101")
	assert.ErrorIs(t, err, ErrBalanceLimit)
	assert.NotEmpty(t, RejectMessage(err))
	assert.Equal(t, start, s.State().Balance)

	res, err := s.Spin(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Payout)
	assert.Equal(t, int64(maxBalance), res.Balance)

	// Весь баланс на границе больше не ставится, и ничего не переполняется
	_, err = s.Spin(ctx, strconv.FormatInt(s.MaxBet(), 10))
	assert.ErrorIs(t, err, ErrBalanceLimit)
	assert.Equal(t, int64(maxBalance), s.State().Balance)
	assert.Equal(t, strconv.FormatInt(maxBalance, 10), storedBalance(t, s))

	// Записанный расчётом баланс читается обратно как есть
	fresh := newTestServ(mem, nil)
	got, err := fresh.LoadBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(maxBalance), got)
}

func TestSpin_WagerIsFloored(t *testing.T) {
	ctx := context.Background()
	s := newTestServ(memory_repo.NewBalanceRepository(), fixedDraws(model.Cherry, model.Bell, model.Star))
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	res, err := s.Spin(ctx, " 12.7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Wager)
	assert.Equal(t, int64(988), res.Balance)
}

func TestSpin_WholeBalance(t *testing.T) {
	ctx := context.Background()
	s := newTestServ(memory_repo.NewBalanceRepository(), fixedDraws(model.Cherry, model.Bell, model.Star))
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	res, err := s.Spin(ctx, strconv.FormatInt(s.MaxBet(), 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Balance)
	assert.Equal(t, int64(1), s.MaxBet())

	_, err = s.Spin(ctx, "1")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSpin_InProgressIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestServ(memory_repo.NewBalanceRepository(), nil)
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	s.spinning.Store(true)
	res, err := s.Spin(ctx, "100")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSpinInProgress)
	assert.Equal(t, StartBalance, s.State().Balance)
	assert.True(t, s.State().Spinning)
	assert.Equal(t, "1000", storedBalance(t, s))
}

func TestSpin_ConcurrentSpinIsDropped(t *testing.T) {
	ctx := context.Background()
	mem := memory_repo.NewBalanceRepository()
	require.NoError(t, mem.SaveBalance(ctx, StorageKey, "1000"))

	repo := &blockingRepo{BalanceRepository: mem, entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestServ(repo, fixedDraws(model.Cherry, model.Bell, model.Star))
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	done := make(chan *model.SpinResult)
	go func() {
		res, err := s.Spin(ctx, "100")
		assert.NoError(t, err)
		done <- res
	}()

	<-repo.entered
	res, err := s.Spin(ctx, "100")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSpinInProgress)

	_, err = s.ResetBalance(ctx)
	assert.ErrorIs(t, err, ErrSpinInProgress)

	close(repo.release)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, int64(900), first.Balance)
	assert.Equal(t, int64(900), s.State().Balance)
}

func TestSpin_StorageFailureRestoresBalance(t *testing.T) {
	ctx := context.Background()
	mem := memory_repo.NewBalanceRepository()
	require.NoError(t, mem.SaveBalance(ctx, StorageKey, "1000"))

	// первая запись - списание, вторая - расчёт
	repo := &flakyRepo{BalanceRepository: mem, failOn: 2}
	s := newTestServ(repo, fixedDraws(model.Seven, model.Seven, model.Seven))
	_, err := s.LoadBalance(ctx)
	require.NoError(t, err)

	res, err := s.Spin(ctx, "100")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errStorage)

	state := s.State()
	assert.Equal(t, StartBalance, state.Balance)
	assert.False(t, state.Spinning)
	assert.Equal(t, "1000", storedBalance(t, s))
}

func TestSpin_LoadsLazily(t *testing.T) {
	ctx := context.Background()
	mem := memory_repo.NewBalanceRepository()
	require.NoError(t, mem.SaveBalance(ctx, StorageKey, "300"))

	s := newTestServ(mem, fixedDraws(model.Lemon, model.Lemon, model.Bell))
	res, err := s.Spin(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(400), res.Balance)
}

func TestSpin_CancelledContextStillSettles(t *testing.T) {
	s := newTestServ(memory_repo.NewBalanceRepository(), fixedDraws(model.Cherry, model.Bell, model.Star))
	_, err := s.LoadBalance(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Spin(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, int64(990), res.Balance)
}

func TestSpin_BalanceEquation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		start := rapid.Int64Range(1, 1_000_000).Draw(t, "balance")
		wager := rapid.Int64Range(1, start).Draw(t, "wager")
		reels := make([]model.Symbol, model.Reels)
		for i := range reels {
			reels[i] = rapid.SampledFrom(model.Symbols).Draw(t, "reel"+strconv.Itoa(i))
		}

		mem := memory_repo.NewBalanceRepository()
		if err := mem.SaveBalance(ctx, StorageKey, strconv.FormatInt(start, 10)); err != nil {
			t.Fatal(err)
		}
		s := newTestServ(mem, fixedDraws(reels...))
		if _, err := s.LoadBalance(ctx); err != nil {
			t.Fatal(err)
		}

		res, err := s.Spin(ctx, strconv.FormatInt(wager, 10))
		if err != nil {
			t.Fatalf("spin: %v", err)
		}

		kind := EvaluateResult(model.Outcome{reels[0], reels[1], reels[2]})
		if res.Kind != kind {
			t.Fatalf("kind %v, want %v", res.Kind, kind)
		}
		switch res.Payout {
		case 0, 2 * wager, 5 * wager, 15 * wager:
		default:
			t.Fatalf("unexpected payout %d for wager %d", res.Payout, wager)
		}
		if res.Payout != wager*kind.Multiplier() {
			t.Fatalf("payout %d, want %d", res.Payout, wager*kind.Multiplier())
		}
		if want := start - wager + res.Payout; res.Balance != want || s.State().Balance != want {
			t.Fatalf("balance %d, want %d", res.Balance, want)
		}
	})
}

func TestSpin_NeverExceedsBalanceLimit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		start := rapid.Int64Range(maxBalance-1_000_000_000, maxBalance).Draw(t, "balance")
		wager := rapid.Int64Range(1, start).Draw(t, "wager")

		mem := memory_repo.NewBalanceRepository()
		if err := mem.SaveBalance(ctx, StorageKey, strconv.FormatInt(start, 10)); err != nil {
			t.Fatal(err)
		}
		s := newTestServ(mem, fixedDraws(model.Seven, model.Seven, model.Seven))
		if _, err := s.LoadBalance(ctx); err != nil {
			t.Fatal(err)
		}

		res, err := s.Spin(ctx, strconv.FormatInt(wager, 10))
		switch {
		case errors.Is(err, ErrBalanceLimit):
			if s.State().Balance != start {
				t.Fatalf("rejected spin changed balance to %d", s.State().Balance)
			}
		case err != nil:
			t.Fatalf("spin: %v", err)
		case res.Balance > maxBalance || res.Balance != start+14*wager:
			t.Fatalf("balance %d for start %d wager %d", res.Balance, start, wager)
		}
	})
}

func TestSpin_RejectionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		start := rapid.Int64Range(0, 1_000_000).Draw(t, "balance")
		wager := rapid.OneOf(
			rapid.Int64Range(-1_000_000, 0),
			rapid.Int64Range(start+1, start+1_000_000),
		).Draw(t, "wager")

		mem := memory_repo.NewBalanceRepository()
		if err := mem.SaveBalance(ctx, StorageKey, strconv.FormatInt(start, 10)); err != nil {
			t.Fatal(err)
		}
		s := newTestServ(mem, nil)
		if _, err := s.LoadBalance(ctx); err != nil {
			t.Fatal(err)
		}

		if _, err := s.Spin(ctx, strconv.FormatInt(wager, 10)); err == nil {
			t.Fatalf("wager %d accepted with balance %d", wager, start)
		}
		state := s.State()
		if state.Balance != start || state.Spinning {
			t.Fatalf("state changed: %+v", state)
		}
	})
}

func TestDraw_CoversAlphabet(t *testing.T) {
	s := newTestServ(memory_repo.NewBalanceRepository(), nil)

	seen := make(map[model.Symbol]int)
	for i := 0; i < 3000; i++ {
		for _, sym := range s.draw() {
			seen[sym]++
		}
	}
	assert.Len(t, seen, len(model.Symbols))
	for sym, n := range seen {
		// ожидание 1500 на символ
		assert.InDelta(t, 1500, n, 300, "symbol %s", sym)
	}
}
