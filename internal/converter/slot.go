package converter

import (
	"bytes"

	dto "midnight_slots/internal/api/dto/slot"
	"midnight_slots/internal/model"

	jsoniter "github.com/json-iterator/go"
)

// ToWagerInput сырое значение ставки как текст поля ввода.
// Строка раскавычивается, null и пустое тело дают "".
func ToWagerInput(req dto.SpinRequest) string {
	raw := bytes.TrimSpace(req.Bet)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := jsoniter.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

func ToSpinResponse(res model.SpinResult) dto.SpinResponse {
	return dto.SpinResponse{
		Reels:      toReels(res.Outcome),
		Result:     string(res.Kind.Classification()),
		Kind:       res.Kind.String(),
		Multiplier: res.Multiplier,
		Wager:      res.Wager,
		Payout:     res.Payout,
		Balance:    res.Balance,
		Message:    res.Message,
		IsWin:      res.IsWin(),
		IsBigWin:   res.IsBigWin(),
		Reveals:    toReveals(res.Reveals),
	}
}

func ToReveal(rv model.ReelReveal) dto.Reveal {
	return dto.Reveal{
		Reel:    rv.Reel,
		Symbol:  string(rv.Symbol),
		AfterMs: rv.After.Milliseconds(),
		Final:   rv.Final,
	}
}

func toReveals(reveals []model.ReelReveal) []dto.Reveal {
	result := make([]dto.Reveal, len(reveals))
	for i, rv := range reveals {
		result[i] = ToReveal(rv)
	}
	return result
}

func toReels(outcome model.Outcome) []string {
	result := make([]string, len(outcome))
	for i, sym := range outcome {
		result[i] = string(sym)
	}
	return result
}

func ToStateResponse(state model.State, reels model.Outcome, timing model.RevealTiming) dto.StateResponse {
	return dto.StateResponse{
		Balance:  state.Balance,
		Spinning: state.Spinning,
		Message:  state.Message,
		MaxBet:   state.MaxBet,
		Reels:    toReels(reels),
		Stats: dto.Stats{
			TotalSpins:    state.Stats.TotalSpins,
			TotalWagered:  state.Stats.TotalWagered,
			TotalPaid:     state.Stats.TotalPaid,
			Wins:          state.Stats.Wins,
			BigWins:       state.Stats.BigWins,
			BiggestPayout: state.Stats.BiggestPayout,
			RTP:           state.Stats.RTP,
			WindowRTP:     state.Stats.WindowRTP,
		},
		FrameMs: timing.FrameInterval.Milliseconds(),
		PopMs:   timing.PopDuration.Milliseconds(),
	}
}
