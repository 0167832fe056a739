package model

import "github.com/shopspring/decimal"

const (
	// LinesPerSpin - фиксированное число ставочных единиц на линию спина.
	// betAmount = bet * LinesPerSpin * coinValue
	LinesPerSpin = 10

	// DefaultBet и DefaultCoinValue - значения нового состояния игры
	DefaultBet = 10
)

// DefaultCoinValue - стоимость монеты для нового состояния игры
var DefaultCoinValue = decimal.RequireFromString("0.10")

// GameState - состояние пары (аккаунт, игра)
type GameState struct {
	AccountID int64
	GameID    string
	Bet       int
	CoinValue decimal.Decimal
	Reels     Reels
}

// GameSnapshot - согласованное чтение баланса и состояния игры
type GameSnapshot struct {
	Balance decimal.Decimal
	State   GameState
}

// WinLine - выигрышная линия
type WinLine struct {
	LineIndex int // 1..len(paylines)
	Symbol    int
	RunLength int // >= 3
	Mask      Payline
	Amount    decimal.Decimal
}

// Wager - запрос на ставку
type Wager struct {
	AccountID int64
	GameID    string
	Bet       int
	CoinValue decimal.Decimal
}

// BetAmount возвращает сумму ставки, округленную до 2 знаков
func (w Wager) BetAmount() decimal.Decimal {
	return RoundMoney(decimal.NewFromInt(int64(w.Bet)).
		Mul(decimal.NewFromInt(LinesPerSpin)).
		Mul(w.CoinValue))
}

// WagerOutcome - результат рассчитанной ставки
type WagerOutcome struct {
	Position   Reels
	WinLines   []WinLine
	BetAmount  decimal.Decimal
	TotalWin   decimal.Decimal
	NewBalance decimal.Decimal
}

// IsWin - есть ли хотя бы одна выигрышная линия
func (o *WagerOutcome) IsWin() bool {
	return len(o.WinLines) > 0
}
