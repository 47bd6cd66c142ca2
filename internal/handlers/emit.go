package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
)

// EmitHandler is the server-triggered relay entry point, used by trusted
// internal callers to push an event into an arbitrary room. Response bodies
// follow the wire contract the portal front-ends already depend on, so they
// bypass the standard response envelope.
type EmitHandler struct {
	hub *realtime.Hub
	log *zap.Logger
}

// NewEmitHandler constructs an emit handler. A nil hub is tolerated and
// reported as 503 on every call.
func NewEmitHandler(hub *realtime.Hub) *EmitHandler {
	return &EmitHandler{
		hub: hub,
		log: logger.WithModule("emit"),
	}
}

type emitRequest struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Emit validates the request body and fans the event out to the target room.
// An empty room is a silent success: delivery is best-effort by contract.
func (h *EmitHandler) Emit(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Socket.IO server not initialized"})
		return
	}

	var req emitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	// A JSON null data field counts as absent.
	if strings.TrimSpace(req.Room) == "" || strings.TrimSpace(req.Event) == "" ||
		len(req.Data) == 0 || string(req.Data) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	var data any
	if err := json.Unmarshal(req.Data, &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	delivered := h.hub.EmitToRoom(req.Room, req.Event, data)
	h.log.Debug("server-triggered emit",
		zap.String("room", req.Room),
		zap.String("event", req.Event),
		zap.Int("delivered", delivered),
	)

	c.JSON(http.StatusOK, gin.H{
		"message": "Event emitted successfully",
		"room":    req.Room,
		"event":   req.Event,
	})
}
