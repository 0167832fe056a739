package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

type AccountRepository interface {
	// CreateAccount возвращает ErrDuplicateKey, если ключ уже занят
	CreateAccount(ctx context.Context, acc *model.Account) (id int64, err error)
	// TouchByKey находит аккаунт по ключу и обновляет last_login одним запросом
	TouchByKey(ctx context.Context, key string, at time.Time) (*model.Account, error)

	GetBalance(ctx context.Context, id int64) (decimal.Decimal, error)
	// GetBalanceForUpdate блокирует строку аккаунта до конца транзакции
	GetBalanceForUpdate(ctx context.Context, id int64) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

type GameStateRepository interface {
	// CreateGameState не перезаписывает уже существующую строку
	CreateGameState(ctx context.Context, state *model.GameState) error
	GetGameState(ctx context.Context, accountID int64, gameID string) (*model.GameState, error)
	UpdateGameState(ctx context.Context, state *model.GameState) error
}

type StatsRepository interface {
	UpdateState(gameID string, bet, payout float64)
	GameStats(gameID string) (model.GameStats, bool)
}
