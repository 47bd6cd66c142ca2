package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/middleware"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/services"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/response"
)

// JobHandler exposes the job-posted trigger point.
type JobHandler struct {
	service *services.JobService
}

// NewJobHandler constructs a job handler.
func NewJobHandler(service *services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Post publishes a job posting and fans notifications out to candidates.
func (h *JobHandler) Post(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload struct {
		Title       string `json:"title" validate:"required,max=255"`
		Description string `json:"description" validate:"max=20000"`
		Location    string `json:"location" validate:"max=255"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Post(c.Request.Context(), services.PostJobInput{
		EmployerUserID: userID,
		Title:          payload.Title,
		Description:    payload.Description,
		Location:       payload.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}
