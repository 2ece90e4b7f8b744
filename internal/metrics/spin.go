package metrics

import (
	"midnight_slots/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Причины отказа в спине
const (
	ReasonInProgress   = "in_progress"
	ReasonInvalidWager = "invalid_wager"
	ReasonInsufficient = "insufficient_balance"
	ReasonBalanceLimit = "balance_limit"
)

var (
	spinTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slots_spins_total",
			Help: "Settled spins by result kind",
		},
		[]string{"result"},
	)

	wageredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slots_wagered_total",
			Help: "Sum of accepted wagers",
		},
	)

	paidTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slots_paid_total",
			Help: "Sum of payouts credited",
		},
	)

	rejectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slots_spin_rejections_total",
			Help: "Spin attempts rejected before settlement",
		},
		[]string{"reason"},
	)

	balanceGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slots_balance",
			Help: "Current player balance",
		},
	)
)

// RecordSpin учитывает рассчитанный спин
func RecordSpin(kind model.ResultKind, wager, payout int64) {
	spinTotal.WithLabelValues(kind.String()).Inc()
	wageredTotal.Add(float64(wager))
	paidTotal.Add(float64(payout))
}

func RecordRejection(reason string) {
	rejectionTotal.WithLabelValues(reason).Inc()
}

func SetBalance(balance int64) {
	balanceGauge.Set(float64(balance))
}
