package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
	"slot_backend/internal/repository"
)

func newRepos() (*Store, *AccountRepository, *GameStateRepository) {
	s := NewStore()
	return s, NewAccountRepository(s), NewGameStateRepository(s)
}

func TestCreateAccountDuplicateKey(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := newRepos()

	id, err := accounts.CreateAccount(ctx, &model.Account{Username: "Guest", Key: "k1", Balance: decimal.NewFromInt(100)})
	if err != nil || id != 1 {
		t.Fatalf("create: id=%d err=%v", id, err)
	}
	_, err = accounts.CreateAccount(ctx, &model.Account{Username: "Guest", Key: "k1"})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
	if errors.Is(err, model.ErrPersistence) {
		t.Fatal("duplicate key must not be reported as persistence failure")
	}
}

func TestTouchByKeyStrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := newRepos()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := accounts.CreateAccount(ctx, &model.Account{Key: "k", LastLogin: at}); err != nil {
		t.Fatal(err)
	}

	first, err := accounts.TouchByKey(ctx, "k", at)
	if err != nil {
		t.Fatal(err)
	}
	second, err := accounts.TouchByKey(ctx, "k", at)
	if err != nil {
		t.Fatal(err)
	}
	if !first.LastLogin.After(at) || !second.LastLogin.After(first.LastLogin) {
		t.Fatalf("last login not increasing: %v %v %v", at, first.LastLogin, second.LastLogin)
	}

	later := at.Add(time.Hour)
	third, _ := accounts.TouchByKey(ctx, "k", later)
	if !third.LastLogin.Equal(later) {
		t.Fatalf("got %v, want %v", third.LastLogin, later)
	}

	if _, err := accounts.TouchByKey(ctx, "missing", at); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateBalanceRejectsNegative(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := newRepos()
	id, _ := accounts.CreateAccount(ctx, &model.Account{Key: "k", Balance: decimal.NewFromInt(5)})

	err := accounts.UpdateBalance(ctx, id, decimal.NewFromInt(-1))
	if !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	bal, _ := accounts.GetBalance(ctx, id)
	if !bal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("balance changed to %s", bal)
	}
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s, accounts, states := newRepos()
	id, _ := accounts.CreateAccount(ctx, &model.Account{Key: "k", Balance: decimal.NewFromInt(100)})
	_ = states.CreateGameState(ctx, &model.GameState{AccountID: id, GameID: "g", Bet: 10, CoinValue: model.DefaultCoinValue})

	boom := errors.New("boom")
	err := s.TxManager().Do(ctx, func(ctx context.Context) error {
		if err := accounts.UpdateBalance(ctx, id, decimal.NewFromInt(1)); err != nil {
			return err
		}
		// своя запись видна внутри транзакции
		if bal, _ := accounts.GetBalance(ctx, id); !bal.Equal(decimal.NewFromInt(1)) {
			t.Errorf("read inside tx = %s", bal)
		}
		return states.UpdateGameState(ctx, &model.GameState{AccountID: id, GameID: "g", Bet: 99})
	})
	if err != nil {
		t.Fatal(err)
	}

	s.FailNext("UpdateGameState", boom)
	err = s.TxManager().Do(ctx, func(ctx context.Context) error {
		if err := accounts.UpdateBalance(ctx, id, decimal.NewFromInt(50)); err != nil {
			return err
		}
		return states.UpdateGameState(ctx, &model.GameState{AccountID: id, GameID: "g", Bet: 1})
	})
	if !errors.Is(err, boom) || !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	bal, _ := accounts.GetBalance(ctx, id)
	st, _ := states.GetGameState(ctx, id, "g")
	if !bal.Equal(decimal.NewFromInt(1)) || st.Bet != 99 {
		t.Fatalf("partial commit: balance=%s bet=%d", bal, st.Bet)
	}
}

func TestCommitFailureDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s, accounts, _ := newRepos()
	id, _ := accounts.CreateAccount(ctx, &model.Account{Key: "k", Balance: decimal.NewFromInt(10)})

	s.FailNext("Commit", errors.New("connection reset"))
	err := s.TxManager().Do(ctx, func(ctx context.Context) error {
		return accounts.UpdateBalance(ctx, id, decimal.NewFromInt(3))
	})
	if err == nil {
		t.Fatal("expected commit failure")
	}
	if bal, _ := accounts.GetBalance(ctx, id); !bal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance = %s", bal)
	}
}

func TestCreateGameStateKeepsExisting(t *testing.T) {
	ctx := context.Background()
	_, _, states := newRepos()

	reels := model.Reels{{1, 2}, {3, 4}, {5, 1}}
	_ = states.CreateGameState(ctx, &model.GameState{AccountID: 1, GameID: "g", Bet: 7, Reels: reels})
	_ = states.CreateGameState(ctx, &model.GameState{AccountID: 1, GameID: "g", Bet: 10})

	st, err := states.GetGameState(ctx, 1, "g")
	if err != nil {
		t.Fatal(err)
	}
	if st.Bet != 7 {
		t.Fatalf("existing state overwritten: bet=%d", st.Bet)
	}

	// Возвращается копия
	st.Reels[0][0] = 5
	again, _ := states.GetGameState(ctx, 1, "g")
	if again.Reels[0][0] != 1 {
		t.Fatal("stored reels were mutated through returned value")
	}

	if _, err := states.GetGameState(ctx, 1, "other"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransactionsOnDifferentAccountsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	s, accounts, states := newRepos()
	a, _ := accounts.CreateAccount(ctx, &model.Account{Key: "a", Balance: decimal.NewFromInt(10)})
	b, _ := accounts.CreateAccount(ctx, &model.Account{Key: "b", Balance: decimal.NewFromInt(10)})

	inTx := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.TxManager().Do(ctx, func(ctx context.Context) error {
			if _, err := accounts.GetBalanceForUpdate(ctx, a); err != nil {
				return err
			}
			close(inTx)
			<-release
			return accounts.UpdateBalance(ctx, a, decimal.NewFromInt(7))
		})
	}()
	<-inTx

	// Аккаунт b свободен
	other, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	err := s.TxManager().Do(other, func(ctx context.Context) error {
		if err := accounts.UpdateBalance(ctx, b, decimal.NewFromInt(3)); err != nil {
			return err
		}
		return states.UpdateGameState(ctx, &model.GameState{AccountID: b, GameID: "g", Bet: 1})
	})
	if err != nil {
		t.Fatalf("account b blocked behind account a: %v", err)
	}
	if _, err = accounts.TouchByKey(other, "b", time.Now()); err != nil {
		t.Fatalf("touch b: %v", err)
	}

	// Строка a занята до конца транзакции
	short, cancelShort := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancelShort()
	err = accounts.UpdateBalance(short, a, decimal.NewFromInt(1))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wait on locked row, got %v", err)
	}

	close(release)
	if err = <-done; err != nil {
		t.Fatal(err)
	}
	if bal, _ := accounts.GetBalance(ctx, a); !bal.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("balance a = %s", bal)
	}
	if bal, _ := accounts.GetBalance(ctx, b); !bal.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("balance b = %s", bal)
	}
}

func TestCreateAccountConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	_, accounts, _ := newRepos()

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dups    int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := accounts.CreateAccount(ctx, &model.Account{Key: "same"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, repository.ErrDuplicateKey):
				dups++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || dups != n-1 {
		t.Fatalf("created=%d duplicates=%d", created, dups)
	}
}
