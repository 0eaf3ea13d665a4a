package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/bountyclaw/pkg/protocol"
)

// maxMessageSize caps inbound WebSocket messages (64KB). UI intents are
// small; anything larger is a misbehaving client.
const maxMessageSize = 64 * 1024

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Client is one connected UI surface. Messages are read sequentially in
// arrival order; each one is dispatched as an independent continuation, so a
// slow handler (an in-flight login poll, say) never blocks the next intent.
type Client struct {
	id        string
	conn      *websocket.Conn
	server    *Server
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	limiter   *rate.Limiter
}

func newClient(conn *websocket.Conn, server *Server) *Client {
	rpm, burst := server.rateLimits()
	limit := rate.Inf
	if rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60.0)
	}
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		server:  server,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ID returns the connection's unique identifier.
func (c *Client) ID() string { return c.id }

// Run starts the read and write pumps. It returns when the connection
// closes.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "client", c.id, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))

		if !c.limiter.Allow() {
			slog.Warn("client rate limited, dropping message", "client", c.id)
			c.Send(protocol.NewError("rate limit exceeded, message dropped"))
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.Send(protocol.NewError("malformed message: " + err.Error()))
			continue
		}

		// Independent continuation: responses may arrive out of order, so
		// the UI keys on bountyId/commentId, not FIFO delivery.
		go c.server.router.Dispatch(ctx, c, &msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "host shutting down"))
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues an outbound message. A full buffer or a closing connection
// drops the message rather than blocking the router.
func (c *Client) Send(msg *protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal outbound message failed", "type", msg.Type, "error", err)
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.id, "type", msg.Type)
	}
}

// Close tells the write pump to send a close frame and tear the connection
// down. Idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
