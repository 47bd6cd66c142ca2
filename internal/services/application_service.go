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
	apperrors "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/logger"
)

// SubmitApplicationInput defines what a candidate sends when applying.
type SubmitApplicationInput struct {
	JobID           string
	CandidateUserID string
	CoverLetter     string
}

// UpdateApplicationStatusInput moves an application through review.
type UpdateApplicationStatusInput struct {
	ApplicationID  string
	EmployerUserID string
	Status         models.ApplicationStatus
}

// ApplicationResult reports the business outcome plus the notification
// delivery outcome. NotificationError is informational: the application
// itself succeeded even when the notification step degraded.
type ApplicationResult struct {
	Application       *models.Application `json:"application"`
	NotificationError string              `json:"notification_error,omitempty"`
}

// ApplicationService owns the application trigger points: every mutation
// persists a notification first, then asks the relay to push it to the
// recipient's room. Push failure never fails the business action.
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
	relay         EventRelay
	log           *zap.Logger
}

// NewApplicationService constructs an ApplicationService. The relay may be
// nil, in which case pushes are skipped and recipients rely on fetch.
func NewApplicationService(db *gorm.DB, notifications *NotificationService, relay EventRelay) (*ApplicationService, error) {
	if db == nil {
		return nil, errors.New("application service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("application service: notification service is required")
	}
	return &ApplicationService{
		db:            db,
		notifications: notifications,
		relay:         normalizeRelay(relay),
		log:           logger.WithModule("applications"),
	}, nil
}

// Submit records a new application and notifies the job's employer.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitApplicationInput) (*ApplicationResult, error) {
	ctx = ensureContext(ctx)

	candidate := strings.TrimSpace(input.CandidateUserID)
	if candidate == "" {
		return nil, errors.New("application service: candidate user id is required")
	}

	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", strings.TrimSpace(input.JobID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("application service: load job: %w", err)
	}

	application := models.Application{
		JobID:           job.ID,
		CandidateUserID: candidate,
		Status:          models.ApplicationSubmitted,
		CoverLetter:     strings.TrimSpace(input.CoverLetter),
	}
	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return nil, fmt.Errorf("application service: create application: %w", err)
	}

	result := &ApplicationResult{Application: &application}
	result.NotificationError = s.notify(ctx, CreateNotificationInput{
		Type:                 models.NotificationNewApplication,
		Title:                "New application received",
		Message:              fmt.Sprintf("A candidate applied to %q", job.Title),
		RecipientUserID:      job.EmployerUserID,
		RelatedJobID:         &job.ID,
		RelatedApplicationID: &application.ID,
	})

	return result, nil
}

// UpdateStatus transitions an application and notifies the candidate. Only
// the employer who owns the job may update it.
func (s *ApplicationService) UpdateStatus(ctx context.Context, input UpdateApplicationStatusInput) (*ApplicationResult, error) {
	ctx = ensureContext(ctx)

	if !input.Status.Valid() {
		return nil, fmt.Errorf("application service: unknown status %q", input.Status)
	}

	var application models.Application
	if err := s.db.WithContext(ctx).First(&application, "id = ?", strings.TrimSpace(input.ApplicationID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("application service: load application: %w", err)
	}

	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", application.JobID).Error; err != nil {
		return nil, fmt.Errorf("application service: load job: %w", err)
	}
	if job.EmployerUserID != strings.TrimSpace(input.EmployerUserID) {
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&application).
		Update("status", input.Status).Error; err != nil {
		return nil, fmt.Errorf("application service: update status: %w", err)
	}
	application.Status = input.Status

	result := &ApplicationResult{Application: &application}
	result.NotificationError = s.notify(ctx, CreateNotificationInput{
		Type:                 models.NotificationStatusUpdated,
		Title:                "Application status updated",
		Message:              fmt.Sprintf("Your application for %q is now %s", job.Title, input.Status),
		RecipientUserID:      application.CandidateUserID,
		RelatedJobID:         &job.ID,
		RelatedApplicationID: &application.ID,
	})

	return result, nil
}

// notify persists the notification, then pushes it to the recipient's room.
// The store write happens before the push and the two never roll back
// together. The returned string is empty on full success and carries a
// human-readable explanation when the notification step degraded.
func (s *ApplicationService) notify(ctx context.Context, input CreateNotificationInput) string {
	dto, err := s.notifications.Create(ctx, input)
	if err != nil {
		s.log.Error("notification persist failed",
			zap.String("type", string(input.Type)),
			zap.String("recipient", input.RecipientUserID),
			zap.Error(err),
		)
		return "action succeeded but the notification could not be recorded"
	}

	if s.relay == nil {
		return ""
	}

	delivered := s.relay.EmitToRoom(
		realtime.UserRoom(dto.RecipientUserID),
		realtime.EventNewNotification,
		realtime.NotificationPayload{Notification: dto},
	)
	if delivered == 0 {
		s.log.Debug("no live recipient for notification",
			zap.String("recipient", dto.RecipientUserID),
			zap.String("notification_id", dto.ID),
		)
	}
	return ""
}
