package model

import "time"

// Symbol один символ барабана
type Symbol string

const (
	Cherry Symbol = "🍒"
	Lemon  Symbol = "🍋"
	Orange Symbol = "🍊"
	Bell   Symbol = "🔔"
	Star   Symbol = "⭐"
	Seven  Symbol = "7️⃣"
)

// Symbols алфавит барабана в порядке отображения
var Symbols = []Symbol{Cherry, Lemon, Orange, Bell, Star, Seven}

// HighSymbol символ с максимальной выплатой за тройку
const HighSymbol = Seven

// Reels количество барабанов
const Reels = 3

// Outcome символы на барабанах 0, 1, 2
type Outcome [Reels]Symbol

// ResultKind итог спина. Набор значений закрыт, см. константы ниже.
type ResultKind int

const (
	NoMatch ResultKind = iota
	Pair
	TripleStandard
	TripleHigh
)

// Classification классификация для клиента
type Classification string

const (
	BigWin   Classification = "big-win"
	SmallWin Classification = "small-win"
	Lose     Classification = "lose"
)

// Multiplier множитель выплаты по таблице
func (k ResultKind) Multiplier() int64 {
	switch k {
	case TripleHigh:
		return 15
	case TripleStandard:
		return 5
	case Pair:
		return 2
	default:
		return 0
	}
}

func (k ResultKind) Classification() Classification {
	switch k {
	case TripleHigh, TripleStandard:
		return BigWin
	case Pair:
		return SmallWin
	default:
		return Lose
	}
}

func (k ResultKind) String() string {
	switch k {
	case TripleHigh:
		return "triple-high"
	case TripleStandard:
		return "triple-standard"
	case Pair:
		return "pair"
	default:
		return "no-match"
	}
}

// SpinResult итог одного спина после расчёта
type SpinResult struct {
	Outcome    Outcome
	Kind       ResultKind
	Multiplier int64
	Wager      int64
	Payout     int64
	Balance    int64
	Message    string
	Reveals    []ReelReveal
}

func (r SpinResult) IsWin() bool {
	return r.Kind.Multiplier() > 0
}

func (r SpinResult) IsBigWin() bool {
	return r.Kind.Classification() == BigWin
}

// ReelReveal событие остановки барабана для анимации.
// After отсчитывается от начала показа.
type ReelReveal struct {
	Reel   int
	Symbol Symbol
	After  time.Duration
	Final  bool
}

// RevealTiming параметры анимации для клиента
type RevealTiming struct {
	FrameInterval time.Duration
	PopDuration   time.Duration
}

// State текущее состояние для клиента
type State struct {
	Balance  int64
	Spinning bool
	Message  string
	MaxBet   int64
	Stats    SessionStats
}

// SessionStats статистика спинов с момента запуска или сброса
type SessionStats struct {
	TotalSpins    int
	TotalWagered  int64
	TotalPaid     int64
	Wins          int
	BigWins       int
	BiggestPayout int64
	RTP           float64 // TotalPaid/TotalWagered*100
	WindowRTP     float64 // RTP по последним спинам
}
