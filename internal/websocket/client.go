package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one browser connection belonging to a signed-in user. The hub
// owns the send channel and closes it on unregister or shutdown.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	userID int64
	send   chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Run streams hub events to the connection until the peer goes away, the
// hub drops the client, or ctx ends.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// The feed is one-way. CloseRead discards pings and pongs and cancels
	// the context once the peer closes.
	ctx = c.conn.CloseRead(ctx)
	c.feed(ctx)
}

func (c *Client) feed(ctx context.Context) {
	keepalive := time.NewTicker(pingInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if c.withTimeout(ctx, c.conn.Ping) != nil {
				return
			}
		case msg, open := <-c.send:
			if !open {
				c.conn.Close(ws.StatusGoingAway, "server closing")
				return
			}
			err := c.withTimeout(ctx, func(ctx context.Context) error {
				return c.conn.Write(ctx, ws.MessageText, msg)
			})
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return fn(ctx)
}
