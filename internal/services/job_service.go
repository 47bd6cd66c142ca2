package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
)

// PostJobInput defines what an employer sends when publishing a posting.
type PostJobInput struct {
	EmployerUserID string
	Title          string
	Description    string
	Location       string
}

// PostJobResult reports the created posting plus how many candidate
// notifications were recorded.
type PostJobResult struct {
	Job                *models.Job `json:"job"`
	CandidatesNotified int         `json:"candidates_notified"`
	NotificationError  string      `json:"notification_error,omitempty"`
}

// JobService owns the job-posted trigger point: publishing a job fans a
// NEW_JOB_POSTED notification out to every active candidate, one durable row
// and one best-effort push each.
type JobService struct {
	db            *gorm.DB
	notifications *NotificationService
	relay         EventRelay
	log           *zap.Logger
}

// NewJobService constructs a JobService.
func NewJobService(db *gorm.DB, notifications *NotificationService, relay EventRelay) (*JobService, error) {
	if db == nil {
		return nil, errors.New("job service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("job service: notification service is required")
	}
	return &JobService{
		db:            db,
		notifications: notifications,
		relay:         normalizeRelay(relay),
		log:           logger.WithModule("jobs"),
	}, nil
}

// Post publishes a job and notifies active candidates. Notification failures
// degrade the result without failing the posting.
func (s *JobService) Post(ctx context.Context, input PostJobInput) (*PostJobResult, error) {
	ctx = ensureContext(ctx)

	employer := strings.TrimSpace(input.EmployerUserID)
	if employer == "" {
		return nil, errors.New("job service: employer user id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("job service: title is required")
	}

	job := models.Job{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Status:         models.JobOpen,
		EmployerUserID: employer,
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, fmt.Errorf("job service: create job: %w", err)
	}

	result := &PostJobResult{Job: &job}

	var candidates []models.User
	if err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleCandidate, true).
		Find(&candidates).Error; err != nil {
		s.log.Error("candidate lookup failed", zap.String("job_id", job.ID), zap.Error(err))
		result.NotificationError = "job posted but candidates could not be notified"
		return result, nil
	}

	for _, candidate := range candidates {
		dto, err := s.notifications.Create(ctx, CreateNotificationInput{
			Type:            models.NotificationNewJobPosted,
			Title:           "New job posted",
			Message:         fmt.Sprintf("%s in %s is now open for applications", job.Title, job.Location),
			RecipientUserID: candidate.ID,
			RelatedJobID:    &job.ID,
		})
		if err != nil {
			s.log.Error("notification persist failed",
				zap.String("recipient", candidate.ID),
				zap.Error(err),
			)
			continue
		}
		result.CandidatesNotified++

		if s.relay != nil {
			s.relay.EmitToRoom(
				realtime.UserRoom(dto.RecipientUserID),
				realtime.EventNewNotification,
				realtime.NotificationPayload{Notification: dto},
			)
		}
	}

	if result.CandidatesNotified < len(candidates) {
		result.NotificationError = "job posted but some candidates could not be notified"
	}
	return result, nil
}
