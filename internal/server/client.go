package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/tabletop/internal/core/observability/log"
	"github.com/zeusync/tabletop/internal/core/tools"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

// client is one websocket connection. Frames are queued on send and written
// by a single writer; a full queue disconnects the client.
type client struct {
	id   string
	user tools.User
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool

	logger log.Log
}

func newClient(id string, user tools.User, conn *websocket.Conn, queue int, logger log.Log) *client {
	return &client{
		id:     id,
		user:   user,
		conn:   conn,
		send:   make(chan []byte, queue),
		logger: logger.With(log.String("client_id", id), log.String("user", user.Name)),
	}
}

func (c *client) enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		c.closed = true
		close(c.send)
		return fmt.Errorf("client %s: send queue full", c.id)
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) sendError(request string, err error) {
	frame, mErr := json.Marshal(Outbound{Type: MsgError, Data: ErrorData{Message: err.Error(), Request: request}})
	if mErr != nil {
		c.logger.Error("Failed to encode error", log.Error(mErr))
		return
	}
	if qErr := c.enqueue(frame); qErr != nil {
		c.logger.Debug("Dropping error reply", log.Error(qErr))
	}
}

// readPump feeds inbound frames to the session until the connection fails.
func (c *client) readPump(s *Session) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			c.sendError("", fmt.Errorf("%w: %w", ErrInvalidMessage, err))
			continue
		}
		if err = s.Handle(c, msg); err != nil {
			c.logger.Debug("Message rejected", log.String("type", msg.Type), log.Error(err))
			c.sendError(msg.Type, err)
		}
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. It closes the connection when the queue is closed.
func (c *client) writePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}
