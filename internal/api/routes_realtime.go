package api

import (
	"github.com/gin-gonic/gin"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/handlers"
)

// The websocket entry point authenticates via token query param rather than
// the Auth middleware, and the internal emit endpoint keeps its own wire
// contract, so both mount outside the /api group.
func registerRealtimeRoutes(r *gin.Engine, rt *handlers.RealtimeHandler, emit *handlers.EmitHandler) {
	r.GET("/ws", rt.Connect)
	r.POST("/internal/emit", emit.Emit)
}
