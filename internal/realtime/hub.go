package realtime

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MiB

	defaultBufferSize = 64
)

// Hub is the room registry and event relay. It tracks live websocket
// connections, lets them join and leave named rooms, and fans events out to
// every connection currently joined to a room. Delivery is at-most-once and
// best-effort: an empty room is a silent no-op, and nothing is queued for
// offline recipients. The durable notification store is the recovery path.
//
// The hub is constructed once during bootstrap and injected wherever pushes
// are triggered or connections accepted.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*connection]struct{}
	conns    map[*connection]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub constructs a realtime hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*connection]struct{}),
		conns: make(map[*connection]struct{}),
		log:   logger.WithModule("realtime"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin requests plus explicit localhost development.
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				originHost := hostWithoutPort(origin)
				requestHost := hostWithoutPort(r.Host)
				return originHost == requestHost || isLoopback(originHost)
			},
		},
	}
}

// Serve upgrades the HTTP connection to a WebSocket and registers the
// connection. Membership starts empty; the client joins rooms explicitly via
// control messages. The joinable set restricts which rooms this connection
// may join (nil permits any room). A reconnecting client arrives here as a
// brand-new connection and must re-join its rooms.
func (h *Hub) Serve(userID string, joinable map[string]struct{}, w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	conn := newConnection(h, socket, userID, joinable)

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeConnections.Inc()

	go conn.writeLoop()
	conn.readLoop()
}

// CloseAll tears down every live connection. Used during shutdown; the HTTP
// server does not wait on hijacked websocket connections.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.close()
	}
}

// EmitToRoom delivers an event to every connection currently joined to the
// room and reports how many connections it was queued to. Zero members means
// the event is dropped without error.
func (h *Hub) EmitToRoom(room, event string, data any) int {
	room = normalizeRoom(room)
	if room == "" || event == "" {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[room]
	if len(members) == 0 {
		metrics.EventsDropped.WithLabelValues("empty_room").Inc()
		return 0
	}

	message := Message{Room: room, Event: event, Data: data}
	delivered := 0
	for conn := range members {
		if h.enqueue(conn, message) {
			delivered++
		}
	}
	metrics.EventsDelivered.WithLabelValues(event).Add(float64(delivered))
	return delivered
}

// RoomSize reports the number of connections joined to a room. Diagnostics
// only; business logic never branches on it.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[normalizeRoom(room)])
}

func (h *Hub) join(conn *connection, room string) {
	room = normalizeRoom(room)
	if room == "" {
		return
	}
	if !conn.mayJoin(room) {
		h.log.Warn("ignoring unauthorized room join",
			zap.String("room", room),
			zap.String("user", conn.userID),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, joined := conn.rooms[room]; joined {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*connection]struct{})
	}
	h.rooms[room][conn] = struct{}{}
	conn.rooms[room] = struct{}{}
}

func (h *Hub) leave(conn *connection, room string) {
	room = normalizeRoom(room)
	if room == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeMembershipLocked(conn, room)
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range conn.rooms {
		h.removeMembershipLocked(conn, room)
	}
	delete(h.conns, conn)
}

func (h *Hub) removeMembershipLocked(conn *connection, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}

	delete(members, conn)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	delete(conn.rooms, room)
}

func (h *Hub) enqueue(conn *connection, message Message) bool {
	select {
	case conn.send <- message:
		return true
	default:
		metrics.EventsDropped.WithLabelValues("backpressure").Inc()
		h.log.Warn("dropping backpressured connection", zap.String("user", conn.userID))
		// close acquires the write lock; fanout holds the read lock here.
		go conn.close()
		return false
	}
}

// handleControl dispatches a peer control message. Emit-to-room is
// deliberately permissive about the target room; join is restricted to the
// connection's joinable set.
func (h *Hub) handleControl(conn *connection, ctrl controlMessage) {
	switch strings.ToLower(strings.TrimSpace(ctrl.Action)) {
	case "join":
		h.join(conn, ctrl.Room)
	case "leave":
		h.leave(conn, ctrl.Room)
	case "emit-to-room":
		if normalizeRoom(ctrl.Room) == "" || strings.TrimSpace(ctrl.Event) == "" {
			h.log.Warn("dropping emit with missing room or event", zap.String("user", conn.userID))
			return
		}
		h.EmitToRoom(ctrl.Room, ctrl.Event, ctrl.Data)
	case "ping":
		select {
		case conn.send <- Message{Event: "pong"}:
		default:
		}
	default:
		h.log.Warn("unsupported control action",
			zap.String("action", ctrl.Action),
			zap.String("user", conn.userID),
		)
	}
}

type connection struct {
	hub      *Hub
	socket   *websocket.Conn
	userID   string
	rooms    map[string]struct{}
	joinable map[string]struct{}
	send     chan Message
	done     chan struct{}
	once     sync.Once
}

func newConnection(hub *Hub, socket *websocket.Conn, userID string, joinable map[string]struct{}) *connection {
	return &connection{
		hub:      hub,
		socket:   socket,
		userID:   userID,
		rooms:    make(map[string]struct{}),
		joinable: joinable,
		send:     make(chan Message, defaultBufferSize),
		done:     make(chan struct{}),
	}
}

func (c *connection) mayJoin(room string) bool {
	if c.joinable == nil {
		return true
	}
	_, ok := c.joinable[room]
	return ok
}

func (c *connection) readLoop() {
	defer c.close()

	c.socket.SetReadLimit(maxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("unexpected close", zap.String("user", c.userID), zap.Error(err))
			}
			break
		}

		if len(payload) == 0 {
			continue
		}

		var ctrl controlMessage
		if err := json.Unmarshal(payload, &ctrl); err != nil {
			c.hub.log.Warn("invalid control payload", zap.String("user", c.userID), zap.Error(err))
			continue
		}

		c.hub.handleControl(c, ctrl)
	}
}

func (c *connection) writeLoop() {
	defer c.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *connection) close() {
	// The send channel is never closed; done stops the write pump and the
	// socket close unblocks the read pump.
	c.once.Do(func() {
		c.hub.unregister(c)
		metrics.RealtimeConnections.Dec()
		close(c.done)
		_ = c.socket.Close()
	})
}

func hostWithoutPort(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		parsed, err := http.NewRequest(http.MethodGet, host, nil)
		if err == nil {
			return hostWithoutPort(parsed.URL.Host)
		}
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	if ip != nil {
		return ip.IsLoopback()
	}
	return strings.EqualFold(host, "localhost")
}
