package slot

import (
	"fmt"

	"midnight_slots/internal/model"
)

// EvaluateResult классифицирует комбинацию по таблице выплат.
// Результат зависит только от мультимножества символов.
func EvaluateResult(outcome model.Outcome) model.ResultKind {
	counts := make(map[model.Symbol]int, model.Reels)
	maxCount := 0
	var maxSym model.Symbol
	for _, sym := range outcome {
		counts[sym]++
		if counts[sym] > maxCount {
			maxCount = counts[sym]
			maxSym = sym
		}
	}

	switch maxCount {
	case 3:
		if maxSym == model.HighSymbol {
			return model.TripleHigh
		}
		return model.TripleStandard
	case 2:
		return model.Pair
	default:
		return model.NoMatch
	}
}

func resultMessage(kind model.ResultKind, payout int64) string {
	switch kind.Classification() {
	case model.BigWin:
		return fmt.Sprintf("Big Win! You won $%d", payout)
	case model.SmallWin:
		return fmt.Sprintf("Win! You won $%d", payout)
	default:
		return "No win — better luck next spin"
	}
}
