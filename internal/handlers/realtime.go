package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/auth"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/response"
)

// RealtimeHandler upgrades HTTP connections into authenticated WebSocket
// connections registered with the hub.
type RealtimeHandler struct {
	hub *realtime.Hub
	jwt *iauth.JWTService
}

// NewRealtimeHandler constructs a realtime handler.
func NewRealtimeHandler(hub *realtime.Hub, jwt *iauth.JWTService) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, jwt: jwt}
}

// Connect validates the caller's token and hands the request to the hub.
// Room joins made after the upgrade are limited to the caller's own user
// room, binding join authorization to the handshake identity rather than a
// client-supplied id.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	if h.jwt == nil || h.hub == nil {
		response.Error(c, errors.ErrNotFound)
		return
	}

	// Browsers cannot set Authorization headers on websocket upgrades, so the
	// token may travel as a query parameter instead.
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		authz := c.GetHeader("Authorization")
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			token = strings.TrimSpace(authz[7:])
		}
	}

	if token == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	claims, err := h.jwt.ValidateAccessToken(token)
	if err != nil {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	joinable := map[string]struct{}{
		realtime.UserRoom(userID): {},
	}
	h.hub.Serve(userID, joinable, c.Writer, c.Request)
}
