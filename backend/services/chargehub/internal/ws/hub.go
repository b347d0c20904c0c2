package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/store"
)

// ConnectionGauge receives live connection count changes.
type ConnectionGauge interface {
	AddLiveConnections(delta int)
}

// Hub fans store events out to the connections of the owning session.
type Hub struct {
	gauge  ConnectionGauge
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]map[*Connection]struct{}
}

// NewHub builds an empty hub.
func NewHub(gauge ConnectionGauge, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		gauge:    gauge,
		logger:   logger,
		sessions: make(map[string]map[*Connection]struct{}),
	}
}

// Join queues the message built by first on conn and registers it under its
// session, both under the hub lock. A Publish either runs before first is
// built, so its change is already in that message, or finds conn registered
// with first queued ahead.
func (h *Hub) Join(conn *Connection, first func() ([]byte, error)) {
	h.mu.Lock()
	if first != nil {
		data, err := first()
		if err != nil {
			h.logger.Error("encode first live message", zap.String("session_id", conn.SessionID()), zap.Error(err))
		} else {
			conn.Send(data)
		}
	}
	conns, ok := h.sessions[conn.SessionID()]
	if !ok {
		conns = make(map[*Connection]struct{})
		h.sessions[conn.SessionID()] = conns
	}
	conns[conn] = struct{}{}
	h.mu.Unlock()
	h.adjust(1)
}

// Remove unregisters conn.
func (h *Hub) Remove(conn *Connection) {
	h.mu.Lock()
	conns, ok := h.sessions[conn.SessionID()]
	if ok {
		if _, ok = conns[conn]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.sessions, conn.SessionID())
			}
		}
	}
	h.mu.Unlock()
	if ok {
		h.adjust(-1)
	}
}

// Publish sends evt to every connection of sessionID and returns how many
// accepted it.
func (h *Hub) Publish(sessionID string, evt store.Event) int {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("encode live update", zap.String("session_id", sessionID), zap.Error(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for conn := range h.sessions[sessionID] {
		if conn.Send(data) {
			delivered++
		}
	}
	return delivered
}

// CloseSession disconnects every connection of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.sessions[sessionID]))
	for conn := range h.sessions[sessionID] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		conn.Close()
	}
}

// CloseAll disconnects everyone, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.CloseSession(id)
	}
}

// Count returns the number of connections for sessionID.
func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) adjust(delta int) {
	if h.gauge != nil {
		h.gauge.AddLiveConnections(delta)
	}
}
