package realtime

import "strings"

// Wire-level event names.
const (
	// EventNewNotification carries a freshly persisted notification to the
	// recipient's room.
	EventNewNotification = "new-notification"
)

// userRoomPrefix is the room naming convention for per-user rooms.
const userRoomPrefix = "user-"

// UserRoom derives the room key owned by a user identity.
func UserRoom(userID string) string {
	return userRoomPrefix + strings.TrimSpace(userID)
}

// Message is the JSON payload delivered to room members.
type Message struct {
	Room  string `json:"room"`
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// NotificationPayload is the typed payload of EventNewNotification. New event
// kinds add their own payload types rather than loosening this one.
type NotificationPayload struct {
	Notification any `json:"notification"`
}

// controlMessage is what connected peers send over the socket. Action is one
// of join, leave, emit-to-room, or ping.
type controlMessage struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
	Event  string `json:"event,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func normalizeRoom(room string) string {
	return strings.TrimSpace(room)
}
