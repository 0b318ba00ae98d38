package livefeed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cs2stats/cs2stats/internal/logging"
)

// reconnectDelay is the fixed wait between connection attempts. There is no
// backoff; the feed is expected to come back quickly after a deploy.
const reconnectDelay = 3 * time.Second

// EventHandler receives every decoded feed event.
type EventHandler func(Event)

// Client maintains one websocket connection to the feed, redialing after a
// fixed delay whenever the connection drops. Attempts are sequential; there
// is never more than one connection open.
type Client struct {
	url     string
	handler EventHandler
	dialer  *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

// NewClient creates a client for the ws:// or wss:// endpoint. handler is
// invoked from the read loop, so it must not block for long.
func NewClient(url string, handler EventHandler) *Client {
	return &Client{
		url:     url,
		handler: handler,
		dialer:  websocket.DefaultDialer,
		done:    make(chan struct{}),
	}
}

// Run connects and keeps reading until Close is called. It returns after
// Close; connection failures are retried internally.
func (c *Client) Run() {
	for {
		if c.isClosed() {
			return
		}

		conn, _, err := c.dialer.Dial(c.url, nil)
		if err != nil {
			logging.Warn().Err(err).Str("url", c.url).Msg("livefeed connect failed")
			if !c.wait() {
				return
			}
			continue
		}

		if !c.setConn(conn) {
			// Closed while dialing.
			_ = conn.Close()
			return
		}
		logging.Info().Str("url", c.url).Msg("livefeed connected")

		c.readLoop(conn)
		c.setConn(nil)

		if !c.wait() {
			return
		}
	}
}

// Close tears down the connection and cancels any pending reconnect. Safe to
// call multiple times.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Send writes a command frame on the current connection.
func (c *Client) Send(eventType string, data interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return websocket.ErrCloseSent
	}
	return conn.WriteJSON(map[string]interface{}{"type": eventType, "data": data})
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosed() {
				logging.Warn().Err(err).Msg("livefeed connection lost")
			}
			_ = conn.Close()
			return
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			logging.Debug().Err(err).Msg("ignoring unparseable livefeed frame")
			continue
		}
		if c.handler != nil {
			c.handler(evt)
		}
	}
}

// wait blocks for the reconnect delay. Returns false when the client was
// closed during the wait.
func (c *Client) wait() bool {
	timer := time.NewTimer(reconnectDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// setConn records the active connection. Returns false when the client was
// closed concurrently, in which case the caller must discard conn.
func (c *Client) setConn(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.conn = conn
	return true
}
