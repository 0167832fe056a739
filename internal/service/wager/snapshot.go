package wager

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

var errNoState = errors.New("game state not created yet")

// Snapshot - баланс и состояние игры на один момент времени.
// Состояние создается при первом обращении к игре
func (s *serv) Snapshot(ctx context.Context, accountID int64, gameID string) (*model.GameSnapshot, error) {
	cfg, err := s.catalog.Resolve(gameID)
	if err != nil {
		return nil, err
	}

	snap, err := s.readSnapshot(ctx, accountID, gameID)
	if !errors.Is(err, errNoState) {
		return snap, err
	}

	// ON CONFLICT DO NOTHING: при гонке первых запросов строка будет одна
	err = s.stateRepo.CreateGameState(ctx, &model.GameState{
		AccountID: accountID,
		GameID:    gameID,
		Bet:       model.DefaultBet,
		CoinValue: model.DefaultCoinValue,
		Reels:     s.generator.Generate(cfg),
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("game state created", zap.Int64("account_id", accountID), zap.String("game_id", gameID))

	snap, err = s.readSnapshot(ctx, accountID, gameID)
	if errors.Is(err, errNoState) {
		return nil, fmt.Errorf("read created game state: %w: %w", model.ErrPersistence, err)
	}
	return snap, err
}

func (s *serv) readSnapshot(ctx context.Context, accountID int64, gameID string) (*model.GameSnapshot, error) {
	var snap model.GameSnapshot
	err := s.txManager.DoWithSettings(ctx, s.snapshotSettings, func(ctx context.Context) error {
		balance, err := s.accountRepo.GetBalance(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("account %d: %w", accountID, model.ErrAuth)
			}
			return err
		}

		state, err := s.stateRepo.GetGameState(ctx, accountID, gameID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNoState
			}
			return err
		}

		snap.Balance = balance
		snap.State = *state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
