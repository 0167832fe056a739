package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"slot_backend/internal/config"
	"slot_backend/internal/metrics"
	"slot_backend/internal/service"
)

const (
	// Время на запись одного кадра
	writeWait = 10 * time.Second
	// Без pong дольше этого соединение считается мертвым
	pongWait = 60 * time.Second
	// Период ping, меньше pongWait
	pingPeriod = 30 * time.Second
	// Максимальный размер входящего сообщения
	maxMessageSize = 4 << 10
	// Очередь исходящих сообщений соединения
	sendBuffer = 64
)

type HandlerDeps struct {
	Sessions service.SessionService
	Wagers   service.WagerService
	Registry *Registry
	Lobby    *Lobby
	Config   config.GatewayConfig
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Gateway - websocket шлюз: принимает события клиентов и отвечает на них
// в том же соединении
type Gateway struct {
	sessions service.SessionService
	wagers   service.WagerService
	registry *Registry
	lobby    *Lobby
	cfg      config.GatewayConfig
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewGateway(deps HandlerDeps) *Gateway {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	lobby := deps.Lobby
	if lobby == nil {
		lobby = NewLobby()
	}

	g := &Gateway{
		sessions: deps.Sessions,
		wagers:   deps.Wagers,
		registry: registry,
		lobby:    lobby,
		cfg:      deps.Config,
		metrics:  deps.Metrics,
		log:      log,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range g.cfg.AllowedOrigins() {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeHTTP поднимает соединение до websocket и обслуживает его до закрытия
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам ответил клиенту ошибкой
		g.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &conn{
		id:      uuid.NewString(),
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(g.cfg.RatePerSecond()), g.cfg.RateBurst()),
		gw:      g,
	}
	c.log = g.log.With(zap.String("conn_id", c.id))

	g.registry.add(c)
	g.metrics.ConnectionOpened()
	c.log.Info("client connected", zap.String("remote", r.RemoteAddr))

	go c.writePump()
	c.readPump()

	g.lobby.leave(c)
	g.registry.remove(c)
	g.metrics.ConnectionClosed()
	c.log.Info("client disconnected")
}
