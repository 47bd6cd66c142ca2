package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/middleware"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/services"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/response"
)

// ApplicationHandler exposes the application trigger points.
type ApplicationHandler struct {
	service *services.ApplicationService
}

// NewApplicationHandler constructs an application handler.
func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Submit records a candidate application against a job posting.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload struct {
		JobID       string `json:"job_id" validate:"required"`
		CoverLetter string `json:"cover_letter" validate:"max=10000"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), services.SubmitApplicationInput{
		JobID:           payload.JobID,
		CandidateUserID: userID,
		CoverLetter:     payload.CoverLetter,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// UpdateStatus transitions an application through review.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload struct {
		Status string `json:"status" validate:"required,oneof=SUBMITTED REVIEWING ACCEPTED REJECTED"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), services.UpdateApplicationStatusInput{
		ApplicationID:  strings.TrimSpace(c.Param("id")),
		EmployerUserID: userID,
		Status:         models.ApplicationStatus(payload.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
