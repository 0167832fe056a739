package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

// AccountRepository - аккаунты поверх Store
type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, acc *model.Account) (int64, error) {
	if err := r.store.fault("CreateAccount"); err != nil {
		return 0, repository.Wrap("create account", err)
	}

	var id int64
	err := r.store.write(ctx, func(ctx context.Context, o *overlay) error {
		// Ключ блокируется, чтобы параллельная вставка того же ключа дождалась коммита
		if err := r.store.lock(ctx, o, keyRow(acc.Key)); err != nil {
			return err
		}
		if _, taken := r.store.accountByKey(ctx, acc.Key); taken {
			return repository.ErrDuplicateKey
		}
		id = r.store.nextID()
		if err := r.store.lock(ctx, o, accountRow(id)); err != nil {
			return err
		}

		stored := *acc
		stored.ID = id
		stored.Balance = model.RoundMoney(acc.Balance)
		o.accounts[id] = stored
		return nil
	})
	if err != nil {
		return 0, repository.Wrap("create account", err)
	}
	return id, nil
}

func (r *AccountRepository) TouchByKey(ctx context.Context, key string, at time.Time) (*model.Account, error) {
	if err := r.store.fault("TouchByKey"); err != nil {
		return nil, repository.Wrap("touch account", err)
	}

	var out model.Account
	err := r.store.write(ctx, func(ctx context.Context, o *overlay) error {
		if err := r.store.lock(ctx, o, keyRow(key)); err != nil {
			return err
		}
		acc, ok := r.store.accountByKey(ctx, key)
		if !ok {
			return repository.ErrNotFound
		}
		if err := r.store.lock(ctx, o, accountRow(acc.ID)); err != nil {
			return err
		}
		// Перечитываем: строка могла измениться, пока ждали блокировку
		acc, _ = r.store.account(ctx, acc.ID)
		next := acc.LastLogin.Add(time.Microsecond)
		if at.After(next) {
			next = at
		}
		acc.LastLogin = next
		o.accounts[acc.ID] = acc
		out = acc
		return nil
	})
	if err != nil {
		return nil, repository.Wrap("touch account", err)
	}
	return &out, nil
}

func (r *AccountRepository) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	if err := r.store.fault("GetBalance"); err != nil {
		return decimal.Zero, repository.Wrap("get balance", err)
	}
	if err := r.store.lockInTx(ctx, accountRow(id)); err != nil {
		return decimal.Zero, repository.Wrap("get balance", err)
	}
	acc, ok := r.store.account(ctx, id)
	if !ok {
		return decimal.Zero, repository.Wrap("get balance", repository.ErrNotFound)
	}
	return acc.Balance, nil
}

// GetBalanceForUpdate - внутри транзакции GetBalance уже держит строку аккаунта
func (r *AccountRepository) GetBalanceForUpdate(ctx context.Context, id int64) (decimal.Decimal, error) {
	return r.GetBalance(ctx, id)
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if err := r.store.fault("UpdateBalance"); err != nil {
		return repository.Wrap("update balance", err)
	}
	if balance.IsNegative() {
		return repository.Wrap("update balance", fmt.Errorf("%w: negative balance %s", model.ErrPersistence, balance))
	}

	err := r.store.write(ctx, func(ctx context.Context, o *overlay) error {
		if err := r.store.lock(ctx, o, accountRow(id)); err != nil {
			return err
		}
		acc, ok := r.store.account(ctx, id)
		if !ok {
			return repository.ErrNotFound
		}
		acc.Balance = model.RoundMoney(balance)
		o.accounts[id] = acc
		return nil
	})
	return repository.Wrap("update balance", err)
}

// GameStateRepository - состояния игр поверх Store
type GameStateRepository struct {
	store *Store
}

func NewGameStateRepository(store *Store) *GameStateRepository {
	return &GameStateRepository{store: store}
}

func (r *GameStateRepository) CreateGameState(ctx context.Context, state *model.GameState) error {
	if err := r.store.fault("CreateGameState"); err != nil {
		return repository.Wrap("create game state", err)
	}

	k := stateKey{accountID: state.AccountID, gameID: state.GameID}
	err := r.store.write(ctx, func(ctx context.Context, o *overlay) error {
		if err := r.store.lock(ctx, o, accountRow(state.AccountID)); err != nil {
			return err
		}
		if _, exists := r.store.state(ctx, k); exists {
			return nil
		}
		o.states[k] = cloneState(*state)
		return nil
	})
	return repository.Wrap("create game state", err)
}

func (r *GameStateRepository) GetGameState(ctx context.Context, accountID int64, gameID string) (*model.GameState, error) {
	if err := r.store.fault("GetGameState"); err != nil {
		return nil, repository.Wrap("get game state", err)
	}
	if err := r.store.lockInTx(ctx, accountRow(accountID)); err != nil {
		return nil, repository.Wrap("get game state", err)
	}

	st, ok := r.store.state(ctx, stateKey{accountID: accountID, gameID: gameID})
	if !ok {
		return nil, repository.Wrap("get game state", repository.ErrNotFound)
	}
	out := cloneState(st)
	return &out, nil
}

func (r *GameStateRepository) UpdateGameState(ctx context.Context, state *model.GameState) error {
	if err := r.store.fault("UpdateGameState"); err != nil {
		return repository.Wrap("update game state", err)
	}

	k := stateKey{accountID: state.AccountID, gameID: state.GameID}
	err := r.store.write(ctx, func(ctx context.Context, o *overlay) error {
		if err := r.store.lock(ctx, o, accountRow(state.AccountID)); err != nil {
			return err
		}
		o.states[k] = cloneState(*state)
		return nil
	})
	return repository.Wrap("update game state", err)
}

func cloneState(st model.GameState) model.GameState {
	if st.Reels != nil {
		reels := make(model.Reels, len(st.Reels))
		for i, reel := range st.Reels {
			reels[i] = append([]int(nil), reel...)
		}
		st.Reels = reels
	}
	return st
}
