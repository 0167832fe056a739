package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	dto "slot_backend/internal/api/dto/ws"
	"slot_backend/internal/model"
)

type conn struct {
	id      string
	ws      *websocket.Conn
	limiter *rate.Limiter
	state   connState
	gw      *Gateway
	log     *zap.Logger

	// В send пишут readPump и рассылки лобби, закрывает readPump
	sendMu sync.Mutex
	send   chan []byte
	closed bool
}

// enqueue ставит кадр в очередь отправки. false - очередь полна
// или соединение уже закрывается
func (c *conn) enqueue(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *conn) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump читает события и обрабатывает их по одному
func (c *conn) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.closeSend()
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}
		// Любое сообщение от клиента тоже признак жизни
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		if !c.process(ctx, message) {
			return
		}
	}
}

// writePump отправляет ответы и ping. Завершается, когда закрыт c.send
// или запись не удалась
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// process обрабатывает одно сообщение. false - соединение нужно закрыть
func (c *conn) process(ctx context.Context, message []byte) bool {
	// Лимит проверяется до разбора: битые кадры тоже расходуют токены
	if !c.limiter.Allow() {
		return c.reply("", "", nil, model.ErrRateLimited)
	}

	var env dto.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return c.reply(env.Event, env.ID, nil, badRequest("malformed envelope", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.gw.cfg.RequestTimeout())
	defer cancel()

	data, err := c.dispatch(reqCtx, env)
	return c.reply(env.Event, env.ID, data, err)
}

// reply ставит в очередь ответ или ошибку. false - очередь переполнена
func (c *conn) reply(event, id string, data any, err error) bool {
	result := "ok"
	out := event
	if err != nil {
		e := toErrorResponse(err)
		result = e.Code
		out = eventError
		data = e
		c.logFailure(event, e.Code, err)
	}
	c.gw.metrics.Event(eventLabel(event), result)

	frame, mErr := encodeFrame(out, id, data)
	if mErr != nil {
		c.log.Error("marshal response", zap.String("event", event), zap.Error(mErr))
		return true
	}

	if !c.enqueue(frame) {
		c.log.Warn("send queue full, dropping client")
		return false
	}
	return true
}

// push отправляет событие лобби без запроса со стороны клиента.
// Переполненного получателя отключаем, его readPump сам все уберет
func (c *conn) push(event string, data any) {
	frame, err := encodeFrame(event, "", data)
	if err != nil {
		c.log.Error("marshal push", zap.String("event", event), zap.Error(err))
		return
	}
	if !c.enqueue(frame) {
		c.log.Warn("send queue full on push, dropping client", zap.String("event", event))
		_ = c.ws.Close()
	}
}

func encodeFrame(event, id string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.Envelope{Event: event, ID: id, Data: payload})
}

func (c *conn) logFailure(event, code string, err error) {
	fields := []zap.Field{
		zap.String("event", event),
		zap.String("code", code),
		zap.Int64("account_id", c.state.accountID),
		zap.Error(err),
	}
	if code == codePersistence {
		c.log.Error("request failed", fields...)
		return
	}
	c.log.Debug("request rejected", fields...)
}
