package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Registry - открытые соединения шлюза. Создается при старте процесса
// и передается шлюзу, глобального состояния нет
type Registry struct {
	mu    sync.Mutex
	conns map[string]*conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*conn)}
}

func (r *Registry) add(c *conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.id] = c
}

func (r *Registry) remove(c *conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c.id)
}

// Len - количество открытых соединений
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// CloseAll отправляет всем клиентам close frame и закрывает соединения.
// Горутины соединений завершаются сами после ошибки чтения
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
	for _, c := range conns {
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = c.ws.Close()
	}
}
