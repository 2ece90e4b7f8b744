package slot

import jsoniter "github.com/json-iterator/go"

type SpinRequest struct {
	Bet jsoniter.RawMessage `json:"bet"` // Ставка: число или строка из поля ввода
}

type SpinResponse struct {
	Reels      []string `json:"reels"`      // Символы барабанов 0..2
	Result     string   `json:"result"`     // big-win | small-win | lose
	Kind       string   `json:"kind"`       // triple-high | triple-standard | pair | no-match
	Multiplier int64    `json:"multiplier"` // Множитель по таблице
	Wager      int64    `json:"wager"`      // Принятая ставка
	Payout     int64    `json:"payout"`     // Выплата
	Balance    int64    `json:"balance"`    // Баланс после спина
	Message    string   `json:"message"`    // Текст для игрока
	IsWin      bool     `json:"is_win"`     // Был ли выигрыш
	IsBigWin   bool     `json:"is_big_win"` // Крупный выигрыш
	Reveals    []Reveal `json:"reveals"`    // Расписание остановки барабанов
}

type Reveal struct {
	Reel    int    `json:"reel"`
	Symbol  string `json:"symbol"`
	AfterMs int64  `json:"after_ms"`
	Final   bool   `json:"final"`
}

type StateResponse struct {
	Balance  int64    `json:"balance"`
	Spinning bool     `json:"spinning"`
	Message  string   `json:"message"`
	MaxBet   int64    `json:"max_bet"`
	Reels    []string `json:"reels"` // Случайные символы для начального экрана
	Stats    Stats    `json:"stats"`
	FrameMs  int64    `json:"frame_ms"` // Шаг прокрутки барабана
	PopMs    int64    `json:"pop_ms"`   // Длительность эффекта остановки
}

type Stats struct {
	TotalSpins    int     `json:"total_spins"`
	TotalWagered  int64   `json:"total_wagered"`
	TotalPaid     int64   `json:"total_paid"`
	Wins          int     `json:"wins"`
	BigWins       int     `json:"big_wins"`
	BiggestPayout int64   `json:"biggest_payout"`
	RTP           float64 `json:"rtp"`
	WindowRTP     float64 `json:"window_rtp"`
}

type MaxBetResponse struct {
	MaxBet int64 `json:"max_bet"`
}

type ResetResponse struct {
	Balance int64  `json:"balance"`
	Message string `json:"message"`
}
