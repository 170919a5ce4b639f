package websocket

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const closeWriteWait = 5 * time.Second

var ErrConnClosed = errors.New("connection is closed")

// connection wraps one gorilla conn into a session handle. Writes are
// serialized with a mutex because broadcasts and acks for the same client
// can originate from different rooms' goroutines.
type connection struct {
	id string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (that *connection) ID() string {
	return that.id
}

func (that *connection) Send(message any) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrConnClosed
	}

	if err := that.conn.WriteJSON(message); err != nil {
		that.closed = true
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) IsOpen() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return !that.closed
}

// Close sends a normal closure frame and shuts the transport down.
// Idempotent; the read loop observes the closure and exits.
func (that *connection) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}
	that.closed = true

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
	_ = that.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(closeWriteWait))

	if err := that.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
