package ws

import (
	"fmt"

	"slot_backend/internal/model"
	"slot_backend/pkg/token"
)

type phase int

const (
	phaseUnauthenticated phase = iota
	phaseAuthenticated
	phaseGameActive
)

func (p phase) String() string {
	switch p {
	case phaseUnauthenticated:
		return "unauthenticated"
	case phaseAuthenticated:
		return "authenticated"
	case phaseGameActive:
		return "game_active"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// connState - состояние одного соединения.
// Меняется только из горутины чтения, поэтому без блокировок
type connState struct {
	phase     phase
	accountID int64
	key       string
	gameID    string
}

// login переводит соединение в Authenticated для аккаунта acc из любого состояния
func (s *connState) login(acc *model.Account) {
	s.phase = phaseAuthenticated
	s.accountID = acc.ID
	s.key = acc.Key
	s.gameID = ""
}

// requireSession - balance и gamestate: нужен вход и ключ этой сессии
func (s *connState) requireSession(key string) error {
	if s.phase == phaseUnauthenticated {
		return fmt.Errorf("%s: login first: %w", s.phase, model.ErrInvalidState)
	}
	if !token.Equal(key, s.key) {
		return fmt.Errorf("key does not match session: %w", model.ErrAuth)
	}
	return nil
}

// activate - после успешного gamestate соединение играет в gameID
func (s *connState) activate(gameID string) {
	s.phase = phaseGameActive
	s.gameID = gameID
}

// requireGame - ставка возможна только в активной игре gameID
func (s *connState) requireGame(key, gameID string) error {
	if s.phase != phaseGameActive {
		return fmt.Errorf("%s: load game state first: %w", s.phase, model.ErrInvalidState)
	}
	if gameID != s.gameID {
		return fmt.Errorf("active game is %q, not %q: %w", s.gameID, gameID, model.ErrInvalidState)
	}
	if !token.Equal(key, s.key) {
		return fmt.Errorf("key does not match session: %w", model.ErrAuth)
	}
	return nil
}
