package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Timeouts configures the keepalive of live connections.
type Timeouts struct {
	Write time.Duration
	Pong  time.Duration
	// Ping must be shorter than Pong.
	Ping time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Write <= 0 {
		t.Write = 10 * time.Second
	}
	if t.Pong <= 0 {
		t.Pong = 60 * time.Second
	}
	if t.Ping <= 0 || t.Ping >= t.Pong {
		t.Ping = t.Pong * 9 / 10
	}
	return t
}

// Connection is one browser subscribed to its session's station changes.
type Connection struct {
	sessionID string
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	timeouts  Timeouts
	logger    *zap.Logger
	onClose   func(*Connection)
}

// NewConnection wraps an upgraded socket.
func NewConnection(sessionID string, conn *websocket.Conn, timeouts Timeouts, logger *zap.Logger, onClose func(*Connection)) *Connection {
	return &Connection{
		sessionID: sessionID,
		ws:        conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		timeouts:  timeouts.withDefaults(),
		logger:    logger,
		onClose:   onClose,
	}
}

// SessionID returns the session the connection listens to.
func (c *Connection) SessionID() string {
	return c.sessionID
}

// Run pumps messages until the peer goes away or Close is called.
func (c *Connection) Run() {
	go c.writePump()
	c.readPump()
}

// Send enqueues msg. Slow readers lose messages rather than block publishers.
func (c *Connection) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		c.logger.Warn("dropping live update, buffer full", zap.String("session_id", c.sessionID))
		return false
	}
}

// Close ends the connection. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(c.timeouts.Write)
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.ws.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
}

// The client never sends anything meaningful; reading keeps pong handling alive.
func (c *Connection) readPump() {
	defer c.Close()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.timeouts.Pong))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.timeouts.Pong))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("live connection read closed", zap.String("session_id", c.sessionID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.timeouts.Ping)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.timeouts.Write))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.timeouts.Write)); err != nil {
				c.Close()
				return
			}
		}
	}
}
