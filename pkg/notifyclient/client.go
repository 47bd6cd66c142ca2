// Package notifyclient provides a Go client for the realtime notification
// channel. It mirrors the front-end subscription hook: connect once, join the
// caller's own room, and surface new-notification events as they arrive.
package notifyclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultDialAttempts     = 3
	initialBackoff          = 250 * time.Millisecond
	maxBackoff              = 5 * time.Second

	eventNewNotification = "new-notification"
	userRoomPrefix       = "user-"
)

// ErrNotConnected is returned by operations that require a live connection.
var ErrNotConnected = errors.New("notifyclient: not connected")

// Notification is the payload shape delivered with new-notification events.
type Notification struct {
	ID                   string         `json:"id"`
	Type                 string         `json:"type"`
	Title                string         `json:"title"`
	Message              string         `json:"message"`
	RecipientUserID      string         `json:"recipient_user_id"`
	RelatedJobID         *string        `json:"related_job_id,omitempty"`
	RelatedApplicationID *string        `json:"related_application_id,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	IsRead               bool           `json:"is_read"`
	ReadAt               *time.Time     `json:"read_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}

// Handler receives notifications pushed to the client's room.
type Handler func(Notification)

// Config describes how to reach the realtime endpoint.
type Config struct {
	// URL is the websocket endpoint, e.g. ws://localhost:8000/ws.
	URL string
	// Token is the JWT access token presented during the handshake.
	Token string
	// UserID identifies the caller; the client joins user-{UserID} on connect.
	UserID string
	// OnNotification is invoked for every new-notification event. Optional.
	OnNotification Handler
	// HandshakeTimeout bounds the websocket dial. Zero means 10 seconds.
	HandshakeTimeout time.Duration
	// DialAttempts caps how many times Connect retries a failed dial before
	// giving up. Zero means 3. Retries back off exponentially.
	DialAttempts int
}

type envelope struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type notificationPayload struct {
	Notification Notification `json:"notification"`
}

type control struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
	Event  string `json:"event,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Client maintains a single websocket subscription. The zero value is not
// usable; construct with New.
type Client struct {
	cfg Config
	log *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	readDone  chan struct{}
}

// New constructs a Client. The connection is not opened until Connect.
func New(cfg Config) (*Client, error) {
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	if cfg.URL == "" {
		return nil, errors.New("notifyclient: url is required")
	}
	if cfg.UserID == "" {
		return nil, errors.New("notifyclient: user id is required")
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.DialAttempts <= 0 {
		cfg.DialAttempts = defaultDialAttempts
	}

	return &Client{
		cfg: cfg,
		log: logger.WithModule("notifyclient"),
	}, nil
}

// Connect dials the realtime endpoint and joins the caller's own room.
// Calling Connect while a connection is live is a no-op; there is never more
// than one socket per client. Failed dials are retried with exponential
// backoff up to the configured attempt cap, after which the client stays
// disconnected until Connect is called again. A dropped connection is never
// redialed automatically.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	join := control{Action: "join", Room: userRoomPrefix + c.cfg.UserID}
	if err := conn.WriteJSON(join); err != nil {
		_ = conn.Close()
		return fmt.Errorf("notifyclient: join room: %w", err)
	}

	c.conn = conn
	c.connected = true
	c.readDone = make(chan struct{})
	go c.readLoop(conn, c.readDone)

	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	header := http.Header{}
	if token := strings.TrimSpace(c.cfg.Token); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 1; attempt <= c.cfg.DialAttempts; attempt++ {
		conn, resp, err := dialer.DialContext(ctx, c.cfg.URL, header)
		if err == nil {
			return conn, nil
		}
		if resp != nil {
			lastErr = fmt.Errorf("notifyclient: dial %s (status %d): %w", c.cfg.URL, resp.StatusCode, err)
		} else {
			lastErr = fmt.Errorf("notifyclient: dial %s: %w", c.cfg.URL, err)
		}

		if attempt == c.cfg.DialAttempts {
			break
		}
		c.log.Warn("dial failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
	return nil, lastErr
}

// Connected reports whether the subscription is live. It flips to false as
// soon as the read loop observes a broken socket.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Emit sends an arbitrary event into a room through the server-side relay.
// Escape hatch for callers that need rooms beyond their own; routine
// notification traffic never needs it.
func (c *Client) Emit(room, event string, data any) error {
	room = strings.TrimSpace(room)
	event = strings.TrimSpace(event)
	if room == "" || event == "" {
		return errors.New("notifyclient: room and event are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}

	msg := control{Action: "emit-to-room", Room: room, Event: event, Data: data}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("notifyclient: emit: %w", err)
	}
	return nil
}

// Close tears down the connection. Safe to call multiple times; a closed
// client can be reconnected with Connect.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	done := c.readDone
	c.conn = nil
	c.connected = false
	c.readDone = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := conn.Close()

	if done != nil {
		<-done
	}
	return err
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	defer c.markDisconnected(conn)

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("connection lost", zap.Error(err))
			}
			return
		}

		if env.Event != eventNewNotification || c.cfg.OnNotification == nil {
			continue
		}

		var payload notificationPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.log.Warn("invalid notification payload", zap.Error(err))
			continue
		}

		c.cfg.OnNotification(payload.Notification)
	}
}

func (c *Client) markDisconnected(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Close may already have swapped in a fresh connection.
	if c.conn == conn {
		c.conn = nil
		c.connected = false
		c.readDone = nil
	}
	_ = conn.Close()
}
