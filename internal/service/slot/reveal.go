package slot

import (
	"context"
	"time"

	"midnight_slots/internal/config"
	"midnight_slots/internal/model"
	"midnight_slots/internal/service"
)

type revealer struct {
	cfg config.SlotConfig
}

// NewRevealService расписание остановки барабанов для уже рассчитанного спина
func NewRevealService(cfg config.SlotConfig) service.RevealService {
	return &revealer{cfg: cfg}
}

func (r *revealer) Schedule(outcome model.Outcome) []model.ReelReveal {
	stops := r.cfg.ReelStops()
	reveals := make([]model.ReelReveal, len(outcome))
	for i, sym := range outcome {
		reveals[i] = model.ReelReveal{
			Reel:   i,
			Symbol: sym,
			After:  stops[i],
			Final:  i == len(outcome)-1,
		}
	}
	return reveals
}

func (r *revealer) Timing() model.RevealTiming {
	return model.RevealTiming{
		FrameInterval: r.cfg.FrameInterval(),
		PopDuration:   r.cfg.PopDuration(),
	}
}

// Play отдаёт события в emit в их моменты времени.
// Баланс к этому моменту уже рассчитан, отмена ctx его не трогает.
func (r *revealer) Play(ctx context.Context, reveals []model.ReelReveal, emit func(model.ReelReveal) error) error {
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for _, rv := range reveals {
		if wait := rv.After - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := emit(rv); err != nil {
			return err
		}
	}
	return nil
}
