package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type clientConn struct {
	ws     *websocket.Conn
	logger *slog.Logger
	send   chan *Event
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newClientConn(ws *websocket.Conn, logger *slog.Logger) *clientConn {
	return &clientConn{
		ws:     ws,
		logger: logger,
		send:   make(chan *Event, 256),
		done:   make(chan struct{}),
	}
}

// Emit queues an outbound event. Audio payloads are large, so a full send
// buffer drops the event rather than stalling the connection.
func (c *clientConn) Emit(t EventType, payload any) {
	evt, err := newEvent(t, payload)
	if err != nil {
		c.logger.Error("marshal error", "type", t, "error", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- evt:
	default:
		c.logger.Warn("send buffer full, dropping event", "type", t)
	}
}

func (c *clientConn) EmitError(message string) {
	c.Emit(EventError, ErrorPayload{Message: message})
}

func (c *clientConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	return c.ws.Close()
}

func (c *clientConn) readPump(h *Handler) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(message, &evt); err != nil {
			c.logger.Error("unmarshal error", "error", err)
			c.EmitError("invalid event")
			continue
		}

		// Agent round trips can take up to two minutes. Dispatching on
		// the read goroutine would starve pong handling, so each event
		// runs on its own goroutine.
		go h.dispatch(c, &evt)
	}
}

func (c *clientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(evt)
			if err != nil {
				c.logger.Error("marshal error", "error", err)
				continue
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
