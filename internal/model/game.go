package model

import "github.com/shopspring/decimal"

// Reels - матрица позиций барабанов: Reels[reel][row] = номер символа (1..SymbolsCount)
type Reels [][]int

// Payline - маска линии выплат: Payline[reel][row] = true в единственной активной ячейке барабана
type Payline [][]bool

// ActiveRow возвращает индекс активной ячейки на барабане reel или -1, если ее нет
func (p Payline) ActiveRow(reel int) int {
	if reel < 0 || reel >= len(p) {
		return -1
	}
	for row, active := range p[reel] {
		if active {
			return row
		}
	}
	return -1
}

// GameConfig - статическое описание игры из каталога. Только для чтения.
type GameConfig struct {
	ID            string
	Name          string
	ReelsCount    int
	ReelPositions int // видимых символов на барабане, хранится ReelPositions+1
	SymbolsCount  int
	Paylines      []Payline
	// PayoutTable[symbol][runLength-3] - множитель выплаты
	PayoutTable map[int][]decimal.Decimal
}

// RowsPerReel - длина одного барабана в матрице позиций
func (c *GameConfig) RowsPerReel() int {
	return c.ReelPositions + 1
}

// Multiplier возвращает множитель для символа и длины серии
func (c *GameConfig) Multiplier(symbol, runLength int) (decimal.Decimal, bool) {
	row, ok := c.PayoutTable[symbol]
	if !ok {
		return decimal.Zero, false
	}
	idx := runLength - 3
	if idx < 0 || idx >= len(row) {
		return decimal.Zero, false
	}
	return row[idx], true
}
