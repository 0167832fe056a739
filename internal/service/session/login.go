package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
	"slot_backend/pkg/token"
)

func (s *serv) Login(ctx context.Context, key string) (*model.Account, bool, error) {
	if key == "" {
		acc, err := s.createGuest(ctx)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	}

	acc, err := s.Resolve(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return acc, false, nil
}

func (s *serv) Resolve(ctx context.Context, key string) (*model.Account, error) {
	if key == "" || len(key) > maxKeyLength {
		return nil, model.ErrAuth
	}

	// Поиск и обновление last_login одним запросом, дубликатов при
	// параллельных входах с одним ключом не бывает
	acc, err := s.accountRepo.TouchByKey(ctx, key, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("unknown key", zap.String("key_fp", token.Fingerprint(key)))
			return nil, model.ErrAuth
		}
		return nil, err
	}
	return acc, nil
}

// createGuest создает гостевой аккаунт со свежим ключом.
// При коллизии ключа генерируем новый, не более maxKeyAttempts раз
func (s *serv) createGuest(ctx context.Context) (*model.Account, error) {
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err := s.newKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w: %w", model.ErrPersistence, err)
		}

		acc := &model.Account{
			Username:  s.cfg.GuestUsername(),
			Balance:   model.RoundMoney(s.cfg.StartingBalance()),
			Key:       key,
			LastLogin: s.now(),
		}

		err = s.txManager.Do(ctx, func(ctx context.Context) error {
			acc.ID, err = s.accountRepo.CreateAccount(ctx, acc)
			return err
		})
		if err == nil {
			s.log.Info("guest account created",
				zap.Int64("account_id", acc.ID),
				zap.String("key_fp", token.Fingerprint(key)))
			return acc, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		s.log.Warn("guest key collision", zap.Int("attempt", attempt))
	}

	return nil, fmt.Errorf("create guest: %w: no unique key after %d attempts", model.ErrPersistence, maxKeyAttempts)
}
