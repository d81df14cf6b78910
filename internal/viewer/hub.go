// Package viewer streams simulation frames to browsers over
// websockets and serves a minimal canvas client to watch them.
package viewer

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// subscriber serializes writes to one connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans frames out to every connected viewer. A subscriber that
// fails a write is dropped on the spot.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	latest []byte
	nextID atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Add sends a connection the most recent frame, so a fresh viewer has
// something to draw before the next tick, and then registers it for
// broadcasts. Both happen under the hub lock, which keeps the cached
// frame ordered before any broadcast frame on the wire.
func (h *Hub) Add(conn *websocket.Conn) uint64 {
	id := h.nextID.Add(1)
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest != nil {
		if err := sub.send(h.latest); err != nil {
			conn.Close()
			return id
		}
	}
	h.subs[id] = sub
	return id
}

func (h *Hub) Remove(id uint64) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends data to every subscriber and remembers it for late
// joiners.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	h.latest = data
	subs := make(map[uint64]*subscriber, len(h.subs))
	for id, sub := range h.subs {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.send(data); err != nil {
			log.Printf("dropping viewer %d: %v", id, err)
			h.Remove(id)
		}
	}
}
