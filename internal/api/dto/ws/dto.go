package ws

import "encoding/json"

// Envelope - кадр протокола в обе стороны. ID возвращается клиенту как есть
type Envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type LoginRequest struct {
	Key *string `json:"key"` // null - новый гостевой аккаунт
}

type LoginResponse struct {
	Status   string  `json:"status"`
	Key      string  `json:"key"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

type BalanceRequest struct {
	Key string `json:"key"`
}

type BalanceResponse struct {
	Value float64 `json:"value"`
}

type GameStateRequest struct {
	Key    string `json:"key"`
	GameID string `json:"gameId"`
}

type GameStateResponse struct {
	Balance   float64 `json:"balance"`
	Bet       int     `json:"bet"`
	CoinValue float64 `json:"coinValue"`
	Reels     [][]int `json:"reels"`
}

type BetRequest struct {
	Key       string  `json:"key"`
	GameID    string  `json:"gameId"`
	Bet       int     `json:"bet"`       // Монет на линию
	CoinValue float64 `json:"coinValue"` // Стоимость монеты
}

type BetResponse struct {
	Balance float64   `json:"balance"`
	Reels   [][]int   `json:"reels"`
	IsWin   bool      `json:"isWin"`
	Win     []WinLine `json:"win"`
}

type WinLine struct {
	Number int     `json:"number"` // 1..число линий
	Symbol int     `json:"symbol"`
	Count  int     `json:"count"` // 3..число барабанов
	Map    [][]int `json:"map"`   // Маска линии, 0/1
	Amount float64 `json:"amount"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Лобби

type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	RoomID   string `json:"roomId,omitempty"`
}

type Room struct {
	ID      string   `json:"id"`
	Players []Player `json:"players"`
	Status  string   `json:"status"`
}

type RegisterPlayerRequest struct {
	Username string `json:"username"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type GameMoveRequest struct {
	RoomID string          `json:"roomId"`
	Move   json.RawMessage `json:"move"`
}

// RoomEvent - ответ на join_room и рассылки player_joined, player_left
type RoomEvent struct {
	Room   Room   `json:"room"`
	Player Player `json:"player"`
}

// MoveEvent - ответ на game_move и рассылка move_made
type MoveEvent struct {
	Player Player          `json:"player"`
	Move   json.RawMessage `json:"move"`
}
