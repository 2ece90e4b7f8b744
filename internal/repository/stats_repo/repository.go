package stats_repo

import (
	"sync"

	"midnight_slots/internal/model"
	"midnight_slots/internal/repository"
)

// defaultWindowSize Размер окна последних спинов для RTP
const defaultWindowSize = 100

type spinEntry struct {
	wager  int64
	payout int64
}

// StatsRepo статистика текущей сессии, живёт в памяти
type StatsRepo struct {
	mtx        sync.RWMutex
	stats      model.SessionStats
	window     []spinEntry
	windowSize int
}

func NewStatsRepository() repository.StatsRepository {
	return newStatsRepo(defaultWindowSize)
}

func newStatsRepo(windowSize int) *StatsRepo {
	return &StatsRepo{
		window:     make([]spinEntry, 0, windowSize),
		windowSize: windowSize,
	}
}

// Stats Возвращает копию статистики
func (r *StatsRepo) Stats() model.SessionStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.stats
}

// Record Обновление статистики после спина
func (r *StatsRepo) Record(wager, payout int64, kind model.ResultKind) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.stats.TotalSpins++
	r.stats.TotalWagered += wager
	r.stats.TotalPaid += payout
	if kind.Multiplier() > 0 {
		r.stats.Wins++
	}
	if kind.Classification() == model.BigWin {
		r.stats.BigWins++
	}
	if payout > r.stats.BiggestPayout {
		r.stats.BiggestPayout = payout
	}
	if r.stats.TotalWagered > 0 {
		r.stats.RTP = float64(r.stats.TotalPaid) / float64(r.stats.TotalWagered) * 100
	}

	// Добавляем спин в окно, поддерживаем размер
	r.window = append(r.window, spinEntry{wager: wager, payout: payout})
	if len(r.window) > r.windowSize {
		r.window = r.window[1:]
	}

	var windowWager, windowPayout int64
	for _, s := range r.window {
		windowWager += s.wager
		windowPayout += s.payout
	}
	if windowWager > 0 {
		r.stats.WindowRTP = float64(windowPayout) / float64(windowWager) * 100
	} else {
		r.stats.WindowRTP = 0
	}
}

// Reset обнуляет статистику, вызывается при сбросе баланса
func (r *StatsRepo) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.stats = model.SessionStats{}
	r.window = r.window[:0]
}
