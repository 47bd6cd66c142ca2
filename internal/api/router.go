package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/auth"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/handlers"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/middleware"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
// The hub is the process-wide relay, constructed once by the caller and
// injected here.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, hub *realtime.Hub) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	notificationSvc, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	applicationSvc, err := services.NewApplicationService(db, notificationSvc, hub)
	if err != nil {
		return nil, err
	}
	jobSvc, err := services.NewJobService(db, notificationSvc, hub)
	if err != nil {
		return nil, err
	}

	notificationHandler, err := handlers.NewNotificationHandler(db)
	if err != nil {
		return nil, err
	}

	requireAuth := middleware.Auth(jwt)

	api := r.Group("/api")
	api.Use(requireAuth)

	registerNotificationRoutes(api, notificationHandler)
	registerJobRoutes(api, handlers.NewJobHandler(jobSvc), handlers.NewApplicationHandler(applicationSvc))
	registerRealtimeRoutes(r, handlers.NewRealtimeHandler(hub, jwt), handlers.NewEmitHandler(hub))

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
