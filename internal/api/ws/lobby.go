package ws

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	dto "slot_backend/internal/api/dto/ws"
	"slot_backend/internal/model"
)

const (
	roomWaiting  = "waiting"
	roomPlaying  = "playing"
	roomFinished = "finished"

	// Сколько игроков нужно, чтобы комната перешла в playing
	roomPlayersToStart = 2
	maxUsernameLength  = 64
)

type lobbyPlayer struct {
	conn     *conn
	username string
	roomID   string
}

type lobbyRoom struct {
	id      string
	members []*lobbyPlayer
	status  string
}

// Lobby - игроки и комнаты для игр на несколько соединений.
// Создается при старте процесса вместе с Registry и передается шлюзу
type Lobby struct {
	mu      sync.Mutex
	players map[string]*lobbyPlayer
	rooms   map[string]*lobbyRoom
	newID   func() string
}

func NewLobby() *Lobby {
	return &Lobby{
		players: make(map[string]*lobbyPlayer),
		rooms:   make(map[string]*lobbyRoom),
		newID:   func() string { return "room_" + uuid.NewString() },
	}
}

// RoomCount - число живых комнат
func (l *Lobby) RoomCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}

// register регистрирует соединение как игрока. Повторный вызов меняет имя
func (l *Lobby) register(c *conn, username string) (dto.Player, error) {
	if username == "" || len(username) > maxUsernameLength {
		return dto.Player{}, fmt.Errorf("username must be 1..%d bytes: %w", maxUsernameLength, model.ErrBadRequest)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[c.id]
	if !ok {
		p = &lobbyPlayer{conn: c}
		l.players[c.id] = p
	}
	p.username = username
	return p.view(), nil
}

func (l *Lobby) createRoom(c *conn) (dto.Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.freePlayer(c)
	if err != nil {
		return dto.Room{}, err
	}

	r := &lobbyRoom{id: l.newID(), members: []*lobbyPlayer{p}, status: roomWaiting}
	l.rooms[r.id] = r
	p.roomID = r.id
	return r.view(), nil
}

// joinRoom добавляет игрока в ожидающую комнату. Остальные участники
// получают player_joined, а при наборе игроков еще и game_start
func (l *Lobby) joinRoom(c *conn, roomID string) (dto.RoomEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.freePlayer(c)
	if err != nil {
		return dto.RoomEvent{}, err
	}
	r, ok := l.rooms[roomID]
	if !ok {
		return dto.RoomEvent{}, fmt.Errorf("room %q: %w", roomID, model.ErrUnknownRoom)
	}
	if r.status != roomWaiting {
		return dto.RoomEvent{}, fmt.Errorf("room %s is %s: %w", r.id, r.status, model.ErrInvalidState)
	}

	r.members = append(r.members, p)
	p.roomID = r.id
	started := len(r.members) >= roomPlayersToStart
	if started {
		r.status = roomPlaying
	}

	out := dto.RoomEvent{Room: r.view(), Player: p.view()}
	r.broadcast(p, eventPlayerJoined, out)
	if started {
		r.broadcast(p, eventGameStart, out.Room)
	}
	return out, nil
}

// move пересылает ход остальным участникам играющей комнаты
func (l *Lobby) move(c *conn, roomID string, move []byte) (dto.MoveEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[c.id]
	if !ok {
		return dto.MoveEvent{}, fmt.Errorf("player not registered: %w", model.ErrInvalidState)
	}
	r, ok := l.rooms[roomID]
	if !ok {
		return dto.MoveEvent{}, fmt.Errorf("room %q: %w", roomID, model.ErrUnknownRoom)
	}
	if p.roomID != r.id || r.status != roomPlaying {
		return dto.MoveEvent{}, fmt.Errorf("room %s is %s: %w", r.id, r.status, model.ErrInvalidState)
	}

	out := dto.MoveEvent{Player: p.view(), Move: move}
	r.broadcast(p, eventMoveMade, out)
	return out, nil
}

// leave убирает отключившееся соединение. Пустая комната удаляется,
// начатая игра без соперника завершается
func (l *Lobby) leave(c *conn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[c.id]
	if !ok {
		return
	}
	delete(l.players, c.id)
	l.detach(p)
}

// freePlayer - зарегистрированный игрок вне активной комнаты.
// Из завершенной комнаты игрок выходит автоматически
func (l *Lobby) freePlayer(c *conn) (*lobbyPlayer, error) {
	p, ok := l.players[c.id]
	if !ok {
		return nil, fmt.Errorf("player not registered: %w", model.ErrInvalidState)
	}
	if p.roomID == "" {
		return p, nil
	}
	if r, ok := l.rooms[p.roomID]; ok && r.status != roomFinished {
		return nil, fmt.Errorf("player already in room %s: %w", r.id, model.ErrInvalidState)
	}
	l.detach(p)
	return p, nil
}

func (l *Lobby) detach(p *lobbyPlayer) {
	r, ok := l.rooms[p.roomID]
	p.roomID = ""
	if !ok {
		return
	}

	for i, m := range r.members {
		if m == p {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	if len(r.members) == 0 {
		delete(l.rooms, r.id)
		return
	}
	if r.status == roomPlaying && len(r.members) < roomPlayersToStart {
		r.status = roomFinished
	}
	r.broadcast(p, eventPlayerLeft, dto.RoomEvent{Room: r.view(), Player: p.view()})
}

// broadcast рассылает событие всем участникам, кроме from: инициатор
// узнает результат из ответа на свой запрос
func (r *lobbyRoom) broadcast(from *lobbyPlayer, event string, data any) {
	for _, m := range r.members {
		if m != from {
			m.conn.push(event, data)
		}
	}
}

func (p *lobbyPlayer) view() dto.Player {
	return dto.Player{ID: p.conn.id, Username: p.username, RoomID: p.roomID}
}

func (r *lobbyRoom) view() dto.Room {
	players := make([]dto.Player, 0, len(r.members))
	for _, m := range r.members {
		players = append(players, m.view())
	}
	return dto.Room{ID: r.id, Players: players, Status: r.status}
}

