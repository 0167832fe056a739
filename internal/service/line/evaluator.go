package line

import (
	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

// Evaluate выполняет оценку выигрышных линий.
// Для каждой линии берется символ активной ячейки каждого барабана, затем считается
// длина серии одинаковых символов начиная с первого барабана. Серия обрывается на первом
// несовпадении, совпадения после разрыва не засчитываются.
func Evaluate(cfg *model.GameConfig, position model.Reels, betAmount decimal.Decimal) []model.WinLine {
	var wins []model.WinLine

	for i, line := range cfg.Paylines {
		symbols, ok := symbolsOnLine(position, line, cfg.ReelsCount)
		if !ok {
			continue
		}

		count := RunLength(symbols)
		if count < 3 {
			continue
		}

		mult, ok := cfg.Multiplier(symbols[0], count)
		if !ok {
			continue
		}

		wins = append(wins, model.WinLine{
			LineIndex: i + 1,
			Symbol:    symbols[0],
			RunLength: count,
			Mask:      line,
			Amount:    model.RoundMoney(betAmount.Mul(mult)),
		})
	}
	return wins
}

// RunLength - длина префикса одинаковых символов, начиная с symbols[0]
func RunLength(symbols []int) int {
	if len(symbols) == 0 {
		return 0
	}
	count := 1
	for _, sym := range symbols[1:] {
		if sym != symbols[0] {
			break
		}
		count++
	}
	return count
}

// TotalWin - сумма выигрышей по линиям, округленная до 2 знаков
func TotalWin(wins []model.WinLine) decimal.Decimal {
	total := decimal.Zero
	for _, w := range wins {
		total = total.Add(w.Amount)
	}
	return model.RoundMoney(total)
}

// symbolsOnLine извлекает символы линии по барабанам. Если матрица не соответствует
// маске, серия считается оборванной на этом барабане.
func symbolsOnLine(position model.Reels, line model.Payline, reels int) ([]int, bool) {
	symbols := make([]int, 0, reels)
	for r := 0; r < reels; r++ {
		row := line.ActiveRow(r)
		if row < 0 || r >= len(position) || row >= len(position[r]) {
			break
		}
		symbols = append(symbols, position[r][row])
	}
	return symbols, len(symbols) > 0
}
