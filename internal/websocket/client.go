package websocket

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512

	sendBuffer = 64
)

// ErrWatcherBacklogged is returned when a watcher is too slow to keep up
// with the outcome feed.
var ErrWatcherBacklogged = errors.New("watcher send buffer is full")

// Client is one read-only watcher of the outcome feed.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	id      string
	subject string
	hub     *Hub
}

// NewClient wraps an upgraded connection opened by subject.
func NewClient(conn *websocket.Conn, subject string, hub *Hub) *Client {
	return &Client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		id:      uuid.NewString(),
		subject: subject,
		hub:     hub,
	}
}

// Start runs the connection's pumps until it closes.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) Subject() string {
	return c.subject
}

// queue hands an encoded event to the write pump without blocking the hub.
func (c *Client) queue(message []byte) error {
	select {
	case c.send <- message:
		return nil
	default:
		return ErrWatcherBacklogged
	}
}

// readPump only exists to answer pongs and notice the peer going away.
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("watcher connection lost",
					slog.String("client_id", c.id),
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
