package service

import (
	"context"

	"slot_backend/internal/model"
)

// CatalogService - каталог игр, неизменяемый после старта
type CatalogService interface {
	Resolve(gameID string) (*model.GameConfig, error)
	List() []*model.GameConfig
}

type SessionService interface {
	// Login - пустой ключ создает гостевой аккаунт
	Login(ctx context.Context, key string) (acc *model.Account, created bool, err error)
	// Resolve находит аккаунт по ключу. ErrAuth, если ключ неизвестен
	Resolve(ctx context.Context, key string) (*model.Account, error)
}

type WagerService interface {
	// Snapshot возвращает баланс и состояние игры, создавая состояние при первом обращении
	Snapshot(ctx context.Context, accountID int64, gameID string) (*model.GameSnapshot, error)
	Execute(ctx context.Context, wager model.Wager) (*model.WagerOutcome, error)
}
