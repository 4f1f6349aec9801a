package events

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// subscriber pairs a connection's pipeline with its write lock. The websocket
// package allows only one concurrent writer per connection, and broadcasts
// and pings arrive from different goroutines.
type subscriber struct {
	pipelineID int64
	writeMu    sync.Mutex
}

// Hub fans board events out to connected kanban clients. Each connection
// subscribes to exactly one pipeline; switching boards means reconnecting.
type Hub struct {
	connections map[*websocket.Conn]*subscriber
	mutex       sync.RWMutex
}

var errNotRegistered = errors.New("connection not registered")

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]*subscriber),
	}
}

func (h *Hub) Register(conn *websocket.Conn, pipelineID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connections[conn] = &subscriber{pipelineID: pipelineID}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.connections[conn]; exists {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}

// BroadcastToPipeline writes the message to every subscriber of the pipeline.
// Dead connections are dropped on write failure.
func (h *Hub) BroadcastToPipeline(pipelineID int64, message interface{}) int {
	type target struct {
		conn *websocket.Conn
		sub  *subscriber
	}

	h.mutex.RLock()
	var targets []target
	for conn, sub := range h.connections {
		if sub.pipelineID == pipelineID {
			targets = append(targets, target{conn: conn, sub: sub})
		}
	}
	h.mutex.RUnlock()

	sent := 0
	for _, t := range targets {
		t.sub.writeMu.Lock()
		err := t.conn.WriteJSON(message)
		t.sub.writeMu.Unlock()
		if err != nil {
			h.Unregister(t.conn)
			continue
		}
		sent++
	}
	return sent
}

// SendPing writes a keepalive ping, serialized against broadcasts on the same
// connection.
func (h *Hub) SendPing(conn *websocket.Conn) error {
	h.mutex.RLock()
	sub := h.connections[conn]
	h.mutex.RUnlock()

	if sub == nil {
		return errNotRegistered
	}

	sub.writeMu.Lock()
	defer sub.writeMu.Unlock()
	return conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *Hub) SubscriberCount(pipelineID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	cnt := 0
	for _, sub := range h.connections {
		if sub.pipelineID == pipelineID {
			cnt++
		}
	}
	return cnt
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn := range h.connections {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}
