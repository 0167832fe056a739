package wager

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slot_backend/internal/metrics"
	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/internal/service/line"
)

// Execute - одна ставка: списание, спин, подсчет линий и зачисление выигрыша.
// Баланс и состояние игры сохраняются в одной транзакции
func (s *serv) Execute(ctx context.Context, wager model.Wager) (*model.WagerOutcome, error) {
	if err := validate(wager); err != nil {
		return nil, err
	}

	cfg, err := s.catalog.Resolve(wager.GameID)
	if err != nil {
		return nil, err
	}
	betAmount := wager.BetAmount()

	unlock, err := s.locks.Lock(ctx, wager.AccountID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("wait account lock: %w: %w", model.ErrTimeout, err)
		}
		return nil, err
	}
	defer unlock()

	var out *model.WagerOutcome
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// FOR UPDATE держит строку аккаунта и против других процессов
		balance, err := s.accountRepo.GetBalanceForUpdate(ctx, wager.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("account %d: %w", wager.AccountID, model.ErrAuth)
			}
			return err
		}
		if balance.LessThan(betAmount) {
			return fmt.Errorf("balance %s, bet %s: %w", balance.StringFixed(2), betAmount.StringFixed(2), model.ErrInsufficientFunds)
		}

		position := s.generator.Generate(cfg)
		wins := line.Evaluate(cfg, position, betAmount)
		totalWin := line.TotalWin(wins)
		newBalance := model.RoundMoney(balance.Sub(betAmount).Add(totalWin))

		if err = s.accountRepo.UpdateBalance(ctx, wager.AccountID, newBalance); err != nil {
			return err
		}
		err = s.stateRepo.UpdateGameState(ctx, &model.GameState{
			AccountID: wager.AccountID,
			GameID:    wager.GameID,
			Bet:       wager.Bet,
			CoinValue: wager.CoinValue,
			Reels:     position,
		})
		if err != nil {
			return err
		}

		out = &model.WagerOutcome{
			Position:   position,
			WinLines:   wins,
			BetAmount:  betAmount,
			TotalWin:   totalWin,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		s.observeFailure(wager, betAmount, err)
		return nil, err
	}

	s.observe(wager, out)
	return out, nil
}

// validate - bet целый и не меньше 1, coinValue положительный, не больше 2 знаков
func validate(w model.Wager) error {
	if w.Bet < 1 {
		return fmt.Errorf("bet %d must be at least 1: %w", w.Bet, model.ErrBadRequest)
	}
	if !w.CoinValue.IsPositive() {
		return fmt.Errorf("coin value %s must be positive: %w", w.CoinValue, model.ErrBadRequest)
	}
	if !w.CoinValue.Equal(w.CoinValue.Round(2)) {
		return fmt.Errorf("coin value %s has more than 2 decimals: %w", w.CoinValue, model.ErrBadRequest)
	}
	return nil
}

func (s *serv) observe(w model.Wager, out *model.WagerOutcome) {
	outcome := metrics.OutcomeLoss
	if out.IsWin() {
		outcome = metrics.OutcomeWin
	}
	s.metrics.Wager(w.GameID, outcome, out.BetAmount, out.TotalWin)

	if s.statsRepo != nil {
		s.statsRepo.UpdateState(w.GameID, out.BetAmount.InexactFloat64(), out.TotalWin.InexactFloat64())
		if st, ok := s.statsRepo.GameStats(w.GameID); ok {
			s.metrics.RTP(w.GameID, st.CurrentRTP)
		}
	}

	s.log.Debug("wager settled",
		zap.Int64("account_id", w.AccountID),
		zap.String("game_id", w.GameID),
		zap.String("bet_amount", out.BetAmount.StringFixed(2)),
		zap.String("win", out.TotalWin.StringFixed(2)),
		zap.Int("win_lines", len(out.WinLines)))
}

func (s *serv) observeFailure(w model.Wager, betAmount decimal.Decimal, err error) {
	fields := []zap.Field{
		zap.Int64("account_id", w.AccountID),
		zap.String("game_id", w.GameID),
		zap.String("bet_amount", betAmount.StringFixed(2)),
		zap.Error(err),
	}

	if errors.Is(err, model.ErrInsufficientFunds) {
		s.metrics.Wager(w.GameID, metrics.OutcomeInsufficientFunds, decimal.Zero, decimal.Zero)
		s.log.Info("wager rejected", fields...)
		return
	}
	s.metrics.Wager(w.GameID, metrics.OutcomeFailed, decimal.Zero, decimal.Zero)
	if errors.Is(err, model.ErrPersistence) {
		s.log.Error("wager failed", fields...)
		return
	}
	s.log.Info("wager failed", fields...)
}
