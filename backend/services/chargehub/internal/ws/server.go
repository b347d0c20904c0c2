package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/store"
)

// EventSnapshot is the first message on every live connection.
const EventSnapshot store.EventKind = "snapshot"

// SessionResolver finds the session of an authenticated request.
type SessionResolver func(r *http.Request) (*store.Session, bool)

// Server upgrades requests to live station feeds.
type Server struct {
	hub      *Hub
	resolve  SessionResolver
	timeouts Timeouts
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(hub *Hub, resolve SessionResolver, timeouts Timeouts, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		hub:      hub,
		resolve:  resolve,
		timeouts: timeouts,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the handler of /api/stations/live.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.resolve(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connection := NewConnection(sess.ID, conn, s.timeouts, s.logger, s.hub.Remove)
	s.hub.Join(connection, func() ([]byte, error) {
		return json.Marshal(store.Event{
			Kind:     EventSnapshot,
			Stations: sess.Store.List(),
		})
	})

	s.logger.Info("live connection opened", zap.String("session_id", sess.ID))
	connection.Run()
}
