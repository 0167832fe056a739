package ws

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	dto "slot_backend/internal/api/dto/ws"
	"slot_backend/internal/converter"
	"slot_backend/internal/model"
	"slot_backend/pkg/req"
)

const (
	eventLogin     = "login"
	eventBalance   = "balance"
	eventGameState = "gamestate"
	eventBet       = "bet"
	eventError     = "error"

	// Лобби
	eventRegisterPlayer = "register_player"
	eventCreateRoom     = "create_room"
	eventJoinRoom       = "join_room"
	eventGameMove       = "game_move"

	// Рассылки лобби остальным участникам комнаты
	eventPlayerJoined = "player_joined"
	eventGameStart    = "game_start"
	eventMoveMade     = "move_made"
	eventPlayerLeft   = "player_left"
)

// eventLabel ограничивает значения метки event известными событиями
func eventLabel(event string) string {
	switch event {
	case eventLogin, eventBalance, eventGameState, eventBet,
		eventRegisterPlayer, eventCreateRoom, eventJoinRoom, eventGameMove:
		return event
	default:
		return "unknown"
	}
}

func (c *conn) dispatch(ctx context.Context, env dto.Envelope) (any, error) {
	switch env.Event {
	case eventLogin:
		return c.handleLogin(ctx, env)
	case eventBalance:
		return c.handleBalance(ctx, env)
	case eventGameState:
		return c.handleGameState(ctx, env)
	case eventBet:
		return c.handleBet(ctx, env)
	case eventRegisterPlayer:
		return c.handleRegisterPlayer(env)
	case eventCreateRoom:
		return c.gw.lobby.createRoom(c)
	case eventJoinRoom:
		return c.handleJoinRoom(env)
	case eventGameMove:
		return c.handleGameMove(env)
	default:
		return nil, fmt.Errorf("unknown event %q: %w", env.Event, model.ErrBadRequest)
	}
}

func decodeData[T any](env dto.Envelope) (T, error) {
	payload, err := req.Decode[T](bytes.NewReader(env.Data))
	if err != nil {
		return payload, badRequest(env.Event+" payload", err)
	}
	return payload, nil
}

func (c *conn) handleLogin(ctx context.Context, env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.LoginRequest](env)
	if err != nil {
		return nil, err
	}

	key := ""
	if payload.Key != nil {
		key = *payload.Key
	}

	acc, created, err := c.gw.sessions.Login(ctx, key)
	if err != nil {
		return nil, err
	}

	c.state.login(acc)
	c.log.Info("logged in", zap.Int64("account_id", acc.ID), zap.Bool("new_account", created))
	return converter.ToLoginResponse(acc), nil
}

func (c *conn) handleBalance(ctx context.Context, env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.BalanceRequest](env)
	if err != nil {
		return nil, err
	}
	if err = c.state.requireSession(payload.Key); err != nil {
		return nil, err
	}

	acc, err := c.gw.sessions.Resolve(ctx, payload.Key)
	if err != nil {
		return nil, err
	}
	return converter.ToBalanceResponse(acc.Balance), nil
}

func (c *conn) handleGameState(ctx context.Context, env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.GameStateRequest](env)
	if err != nil {
		return nil, err
	}
	if err = c.state.requireSession(payload.Key); err != nil {
		return nil, err
	}

	acc, err := c.gw.sessions.Resolve(ctx, payload.Key)
	if err != nil {
		return nil, err
	}

	snap, err := c.gw.wagers.Snapshot(ctx, acc.ID, payload.GameID)
	if err != nil {
		return nil, err
	}

	c.state.activate(payload.GameID)
	return converter.ToGameStateResponse(snap), nil
}

func (c *conn) handleBet(ctx context.Context, env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.BetRequest](env)
	if err != nil {
		return nil, err
	}
	if err = c.state.requireGame(payload.Key, payload.GameID); err != nil {
		return nil, err
	}

	acc, err := c.gw.sessions.Resolve(ctx, payload.Key)
	if err != nil {
		return nil, err
	}

	out, err := c.gw.wagers.Execute(ctx, converter.ToWager(acc.ID, payload))
	if err != nil {
		return nil, err
	}
	return converter.ToBetResponse(out), nil
}

func (c *conn) handleRegisterPlayer(env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.RegisterPlayerRequest](env)
	if err != nil {
		return nil, err
	}
	return c.gw.lobby.register(c, payload.Username)
}

func (c *conn) handleJoinRoom(env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.JoinRoomRequest](env)
	if err != nil {
		return nil, err
	}
	if payload.RoomID == "" {
		return nil, fmt.Errorf("empty roomId: %w", model.ErrBadRequest)
	}
	return c.gw.lobby.joinRoom(c, payload.RoomID)
}

func (c *conn) handleGameMove(env dto.Envelope) (any, error) {
	payload, err := decodeData[dto.GameMoveRequest](env)
	if err != nil {
		return nil, err
	}
	if payload.RoomID == "" {
		return nil, fmt.Errorf("empty roomId: %w", model.ErrBadRequest)
	}
	if len(payload.Move) == 0 {
		return nil, fmt.Errorf("empty move: %w", model.ErrBadRequest)
	}
	return c.gw.lobby.move(c, payload.RoomID, payload.Move)
}
