package converter

import (
	"strconv"

	dto "slot_backend/internal/api/dto/game"
	"slot_backend/internal/model"
)

func ToGameSummaries(games []*model.GameConfig) []dto.GameSummary {
	result := make([]dto.GameSummary, len(games))
	for i, g := range games {
		result[i] = dto.GameSummary{ID: g.ID, Name: g.Name}
	}
	return result
}

func ToGameDescriptor(g *model.GameConfig) dto.GameDescriptor {
	paylines := make([][][]int, len(g.Paylines))
	for i, p := range g.Paylines {
		paylines[i] = ToMask(p)
	}

	payouts := make(map[string][]float64, len(g.PayoutTable))
	for symbol, mults := range g.PayoutTable {
		row := make([]float64, len(mults))
		for i, m := range mults {
			row[i] = m.InexactFloat64()
		}
		payouts[strconv.Itoa(symbol)] = row
	}

	return dto.GameDescriptor{
		ID:            g.ID,
		Name:          g.Name,
		ReelsCount:    g.ReelsCount,
		ReelPositions: g.ReelPositions,
		SymbolsCount:  g.SymbolsCount,
		Paylines:      paylines,
		PayoutTable:   payouts,
	}
}
