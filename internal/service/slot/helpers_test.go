package slot

import (
	"context"
	"errors"
	"sync"
	"time"

	"midnight_slots/internal/model"
	"midnight_slots/internal/repository"
	"midnight_slots/internal/repository/memory_repo"
	"midnight_slots/internal/repository/stats_repo"
)

type testSlotConfig struct {
	stops []time.Duration
}

func (c testSlotConfig) FrameInterval() time.Duration { return 60 * time.Millisecond }
func (c testSlotConfig) ReelStops() []time.Duration   { return c.stops }
func (c testSlotConfig) PopDuration() time.Duration   { return 260 * time.Millisecond }

var defaultStops = []time.Duration{900 * time.Millisecond, 1400 * time.Millisecond, 1850 * time.Millisecond}

func symbolIndex(sym model.Symbol) int {
	for i, s := range model.Symbols {
		if s == sym {
			return i
		}
	}
	panic("unknown symbol " + string(sym))
}

// fixedDraws подставляет заранее заданные символы, затем повторяет последний
func fixedDraws(symbols ...model.Symbol) func(int) int {
	var mtx sync.Mutex
	i := 0
	return func(int) int {
		mtx.Lock()
		defer mtx.Unlock()
		sym := symbols[min(i, len(symbols)-1)]
		i++
		return symbolIndex(sym)
	}
}

func newTestServ(repo repository.BalanceRepository, draws func(int) int) *serv {
	s := newServ(repo, stats_repo.NewStatsRepository(), memory_repo.NewTxManager(), NewRevealService(testSlotConfig{stops: defaultStops}), nil)
	if draws != nil {
		s.intn = draws
	}
	return s
}

var errStorage = errors.New("storage down")

// flakyRepo падает на записи с номером failOn (с единицы)
type flakyRepo struct {
	repository.BalanceRepository
	mtx    sync.Mutex
	writes int
	failOn int
}

func (r *flakyRepo) SaveBalance(ctx context.Context, key, value string) error {
	r.mtx.Lock()
	r.writes++
	fail := r.writes == r.failOn
	r.mtx.Unlock()
	if fail {
		return errStorage
	}
	return r.BalanceRepository.SaveBalance(ctx, key, value)
}

// blockingRepo держит запись, пока не закроют release
type blockingRepo struct {
	repository.BalanceRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingRepo) SaveBalance(ctx context.Context, key, value string) error {
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return r.BalanceRepository.SaveBalance(ctx, key, value)
}
