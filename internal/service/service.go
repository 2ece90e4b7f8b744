package service

import (
	"context"

	"midnight_slots/internal/model"
)

type SlotService interface {
	Spin(ctx context.Context, wagerInput string) (*model.SpinResult, error)
	ResetBalance(ctx context.Context) (int64, error)
	LoadBalance(ctx context.Context) (int64, error)
	MaxBet() int64
	State() model.State
	InitialReels() model.Outcome
}

type RevealService interface {
	Schedule(outcome model.Outcome) []model.ReelReveal
	Timing() model.RevealTiming
	Play(ctx context.Context, reveals []model.ReelReveal, emit func(model.ReelReveal) error) error
}
