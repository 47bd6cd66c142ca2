package services

import "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"

// EventRelay is the live-push side of the notification pipeline, satisfied by
// *realtime.Hub. EmitToRoom reports how many connections the event reached;
// zero is not an error, it only means nobody was listening.
type EventRelay interface {
	EmitToRoom(room, event string, data any) int
}

// normalizeRelay maps a nil *realtime.Hub stored in the interface to a plain
// nil relay, so the push-skip check holds no matter how the hub was passed.
func normalizeRelay(relay EventRelay) EventRelay {
	if hub, ok := relay.(*realtime.Hub); ok && hub == nil {
		return nil
	}
	return relay
}
