package api

import (
	"github.com/gin-gonic/gin"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/handlers"
)

func registerJobRoutes(api *gin.RouterGroup, jobs *handlers.JobHandler, applications *handlers.ApplicationHandler) {
	api.POST("/jobs", jobs.Post)
	api.POST("/applications", applications.Submit)
	api.PATCH("/applications/:id/status", applications.UpdateStatus)
}
