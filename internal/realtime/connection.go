package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 128
)

// ErrConnClosed is returned by Send after the connection terminated
var ErrConnClosed = errors.New("connection closed")

// Conn is the transport half the registry needs: a stable opaque
// handle and a non-blocking send. *Connection implements it; tests
// substitute in-memory fakes.
type Conn interface {
	ID() string
	Send(payload []byte) error
}

// Connection wraps a websocket and serializes outbound writes through
// a buffered channel drained by a single write pump. It is safe for
// concurrent use.
type Connection struct {
	id string

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewConnection constructs a Connection over an upgraded websocket
func NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		id:    uuid.NewString(),
		ws:    ws,
		send:  make(chan []byte, sendBuffer),
		close: make(chan struct{}),
	}
}

// ID returns the opaque connection handle
func (c *Connection) ID() string {
	return c.id
}

// Start launches the write pump. It must be called exactly once.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. If the client is slow and the
// buffer is full the connection is closed: backpressure stays bounded
// at the cost of dropping the laggard.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return ErrConnClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("send buffer exceeded")
	}
}

// SendEvent marshals and enqueues a named event
func (c *Connection) SendEvent(event Event) error {
	payload, err := event.Marshal()
	if err != nil {
		return err
	}
	return c.Send(payload)
}

// Close terminates the connection and stops the write pump. Safe to
// call multiple times.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		// send stays open; closing it would race concurrent Send
		// callers. The write pump exits via the close signal.
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
