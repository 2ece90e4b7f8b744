package slot

import (
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"midnight_slots/internal/repository"
	"midnight_slots/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

const (
	// Ключ баланса в хранилище
	StorageKey = "midnight_balance_v1"
	// Стартовый баланс
	StartBalance int64 = 1000
)

var (
	ErrSpinInProgress      = errors.New("spin in progress")
	ErrInvalidWager        = errors.New("invalid wager")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceLimit        = errors.New("balance limit exceeded")
)

// RejectMessage текст для игрока при отказе в ставке
func RejectMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidWager):
		return "Enter a bet greater than $0"
	case errors.Is(err, ErrInsufficientBalance):
		return "Not enough balance for that bet"
	case errors.Is(err, ErrBalanceLimit):
		return "That bet could push the balance past the table limit"
	default:
		return ""
	}
}

type serv struct {
	repo      repository.BalanceRepository
	stats     repository.StatsRepository
	txManager trm.Manager
	revealer  service.RevealService
	log       *zap.Logger

	// Флаг спина, неблокирующий try-lock
	spinning atomic.Bool

	mtx     sync.RWMutex
	balance int64
	loaded  bool
	message string

	intn func(n int) int
}

// NewSlotService Создать слот 3 барабана
func NewSlotService(
	repo repository.BalanceRepository,
	stats repository.StatsRepository,
	txManager trm.Manager,
	revealer service.RevealService,
	log *zap.Logger,
) service.SlotService {
	return newServ(repo, stats, txManager, revealer, log)
}

func newServ(
	repo repository.BalanceRepository,
	stats repository.StatsRepository,
	txManager trm.Manager,
	revealer service.RevealService,
	log *zap.Logger,
) *serv {
	if log == nil {
		log = zap.NewNop()
	}
	return &serv{
		repo:      repo,
		stats:     stats,
		txManager: txManager,
		revealer:  revealer,
		log:       log.Named("slot"),
		intn:      rand.IntN,
	}
}
