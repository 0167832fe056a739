package model

import "time"

// GameStats - накопленная статистика игры
type GameStats struct {
	TotalSpins  int     // Сколько всего спинов сделано
	TotalBet    float64 // Сумма всех ставок
	TotalPayout float64 // Сумма всех выплат
	CurrentRTP  float64 // (TotalPayout/TotalBet)*100

	SpinWindow []SpinResult // Окно последних спинов
	WindowRTP  float64      // RTP в окне последних спинов
	WindowSize int

	UpdatedAt time.Time
}

// SpinResult - результат спина для окна
type SpinResult struct {
	Bet    float64
	Payout float64
}
