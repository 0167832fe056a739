// Package memory - хранилище в памяти процесса. Используется в тестах
// и при запуске без PG_DSN. Изменения внутри транзакции копятся в overlay
// и применяются целиком при коммите.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/avito-tech/go-transaction-manager/trm/v2"

	"slot_backend/internal/model"
	"slot_backend/pkg/keymutex"
)

type stateKey struct {
	accountID int64
	gameID    string
}

// rowKey - блокируемая строка: аккаунт по id либо ключ доступа
type rowKey struct {
	accountID int64
	key       string
}

func accountRow(id int64) rowKey { return rowKey{accountID: id} }

func keyRow(key string) rowKey { return rowKey{accountID: -1, key: key} }

type txKey struct{}

// overlay - незакоммиченные изменения одной транзакции и удерживаемые ею строки
type overlay struct {
	accounts map[int64]model.Account
	states   map[stateKey]model.GameState
	held     map[rowKey]func()
}

func newOverlay() *overlay {
	return &overlay{
		accounts: make(map[int64]model.Account),
		states:   make(map[stateKey]model.GameState),
		held:     make(map[rowKey]func()),
	}
}

func (o *overlay) release() {
	for _, unlock := range o.held {
		unlock()
	}
	o.held = nil
}

// Store хранит аккаунты и состояния игр.
// Транзакция блокирует строки аккаунтов при первом обращении и держит их
// до коммита или отката, как SELECT ... FOR UPDATE. Транзакции над разными
// аккаунтами друг друга не ждут.
type Store struct {
	rows *keymutex.KeyedMutex[rowKey]
	ids  atomic.Int64

	mu       sync.RWMutex
	accounts map[int64]model.Account
	byKey    map[string]int64
	states   map[stateKey]model.GameState

	faultsMu sync.Mutex
	faults   map[string]error
}

func NewStore() *Store {
	return &Store{
		rows:     keymutex.New[rowKey](),
		accounts: make(map[int64]model.Account),
		byKey:    make(map[string]int64),
		states:   make(map[stateKey]model.GameState),
		faults:   make(map[string]error),
	}
}

// FailNext - следующий вызов операции op вернет err.
// Нужен тестам, чтобы проверить откат транзакции
func (s *Store) FailNext(op string, err error) {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faultsMu.Lock()
	defer s.faultsMu.Unlock()
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return err
}

// TxManager возвращает менеджер транзакций поверх этого хранилища
func (s *Store) TxManager() trm.Manager {
	return &txManager{store: s}
}

func overlayFrom(ctx context.Context) *overlay {
	o, _ := ctx.Value(txKey{}).(*overlay)
	return o
}

// lock захватывает строку для транзакции o. Повторный захват бесплатен
func (s *Store) lock(ctx context.Context, o *overlay, row rowKey) error {
	if _, ok := o.held[row]; ok {
		return nil
	}
	unlock, err := s.rows.Lock(ctx, row)
	if err != nil {
		return err
	}
	o.held[row] = unlock
	return nil
}

// lockInTx - чтение внутри транзакции тоже держит строку до ее конца.
// Вне транзакции читается последнее закоммиченное состояние
func (s *Store) lockInTx(ctx context.Context, row rowKey) error {
	o := overlayFrom(ctx)
	if o == nil {
		return nil
	}
	return s.lock(ctx, o, row)
}

// nextID выдает id как bigserial: при откате номер не возвращается
func (s *Store) nextID() int64 {
	return s.ids.Add(1)
}

func (s *Store) commit(o *overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range o.accounts {
		if prev, ok := s.accounts[id]; ok && prev.Key != acc.Key {
			delete(s.byKey, prev.Key)
		}
		s.accounts[id] = acc
		s.byKey[acc.Key] = id
	}
	for k, st := range o.states {
		s.states[k] = st
	}
}

// write выполняет fn в транзакции из контекста или в собственной
// однооперационной транзакции
func (s *Store) write(ctx context.Context, fn func(ctx context.Context, o *overlay) error) error {
	if o := overlayFrom(ctx); o != nil {
		return fn(ctx, o)
	}

	o := newOverlay()
	defer o.release()

	if err := fn(context.WithValue(ctx, txKey{}, o), o); err != nil {
		return err
	}
	s.commit(o)
	return nil
}

func (s *Store) account(ctx context.Context, id int64) (model.Account, bool) {
	if o := overlayFrom(ctx); o != nil {
		if acc, ok := o.accounts[id]; ok {
			return acc, true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	return acc, ok
}

func (s *Store) accountByKey(ctx context.Context, key string) (model.Account, bool) {
	if o := overlayFrom(ctx); o != nil {
		for _, acc := range o.accounts {
			if acc.Key == key {
				return acc, true
			}
		}
	}
	s.mu.RLock()
	id, ok := s.byKey[key]
	s.mu.RUnlock()
	if !ok {
		return model.Account{}, false
	}
	return s.account(ctx, id)
}

func (s *Store) state(ctx context.Context, k stateKey) (model.GameState, bool) {
	if o := overlayFrom(ctx); o != nil {
		if st, ok := o.states[k]; ok {
			return st, true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[k]
	return st, ok
}

type txManager struct {
	store *Store
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoWithSettings(ctx, nil, fn)
}

// DoWithSettings - уровень изоляции не настраивается: строки, к которым
// обращалась транзакция, заблокированы до ее конца, этого достаточно для любого уровня
func (m *txManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	// Вложенный вызов присоединяется к внешней транзакции
	if overlayFrom(ctx) != nil {
		return fn(ctx)
	}

	o := newOverlay()
	defer o.release()

	if err := fn(context.WithValue(ctx, txKey{}, o)); err != nil {
		return err
	}
	if err := m.store.fault("Commit"); err != nil {
		return err
	}
	m.store.commit(o)
	return nil
}
