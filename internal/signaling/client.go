package signaling

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32

	// Large enough for an SDP offer with a long chat message to spare.
	maxMessageSize = 64 * 1024
)

// Channel is one live realtime connection. The coordinator only ever talks to
// this interface; tests substitute an in-memory fake.
type Channel interface {
	ID() string
	UserID() uuid.UUID
	Name() string
	SetName(name string)
	Send(event Event) bool
	Close()
}

// Client wraps a websocket connection with a buffered outbound queue drained
// by a single writer goroutine.
type Client struct {
	id     string
	userID uuid.UUID

	conn *websocket.Conn
	send chan Event

	mu     sync.RWMutex
	name   string
	closed bool
}

func NewClient(conn *websocket.Conn, userID uuid.UUID, name string) *Client {
	return &Client{
		id:     uuid.New().String(),
		userID: userID,
		conn:   conn,
		send:   make(chan Event, sendBufferSize),
		name:   name,
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) UserID() uuid.UUID { return c.userID }

func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) SetName(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

// Send queues an event for delivery. A full queue drops the event rather than
// blocking the caller; slow consumers must not stall the room.
func (c *Client) Send(event Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close is idempotent and safe to call from any goroutine.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}

// WritePump drains the send queue to the socket. It owns all writes to the
// connection and closes it on exit.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump delivers inbound frames to handle until the connection drops, then
// invokes onClose exactly once.
func (c *Client) ReadPump(handle func(raw []byte), onClose func()) {
	defer onClose()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(raw)
	}
}
