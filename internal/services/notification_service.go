package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	apperrors "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/errors"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/pkg/metrics"
)

// NotificationDTO represents the API-friendly notification payload. The same
// shape travels over the realtime channel as the new-notification payload.
type NotificationDTO struct {
	ID                   string                  `json:"id"`
	Type                 models.NotificationType `json:"type"`
	Title                string                  `json:"title"`
	Message              string                  `json:"message"`
	RecipientUserID      string                  `json:"recipient_user_id"`
	RelatedJobID         *string                 `json:"related_job_id,omitempty"`
	RelatedApplicationID *string                 `json:"related_application_id,omitempty"`
	Metadata             map[string]any          `json:"metadata,omitempty"`
	IsRead               bool                    `json:"is_read"`
	ReadAt               *time.Time              `json:"read_at,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

// CreateNotificationInput defines attributes required to persist a notification.
type CreateNotificationInput struct {
	Type                 models.NotificationType
	Title                string
	Message              string
	RecipientUserID      string
	RelatedJobID         *string
	RelatedApplicationID *string
	Metadata             map[string]any
}

// ListNotificationsInput defines filters for querying a recipient's notifications.
type ListNotificationsInput struct {
	RecipientUserID string
	Limit           int
	Offset          int
	UnreadOnly      bool
}

// NotificationService is the durable store behind the realtime push layer.
// It never emits live events itself; pushing after a successful create is the
// caller's responsibility, which keeps persistence independent of delivery.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	return &NotificationService{db: db}, nil
}

// Create durably writes a notification and returns the persisted record.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)

	recipient := strings.TrimSpace(input.RecipientUserID)
	if recipient == "" {
		return nil, errors.New("notification service: recipient user id is required")
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("notification service: unknown notification type %q", input.Type)
	}

	notification := models.Notification{
		Type:                 input.Type,
		Title:                strings.TrimSpace(input.Title),
		Message:              strings.TrimSpace(input.Message),
		RecipientUserID:      recipient,
		RelatedJobID:         input.RelatedJobID,
		RelatedApplicationID: input.RelatedApplicationID,
	}

	if input.Metadata != nil {
		data, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, fmt.Errorf("notification service: marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(data)
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("notification service: create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()

	dto := mapNotification(notification)
	return &dto, nil
}

// ListByRecipient returns the recipient's notifications newest first. The
// result is a finite snapshot at call time.
func (s *NotificationService) ListByRecipient(ctx context.Context, input ListNotificationsInput) ([]NotificationDTO, error) {
	ctx = ensureContext(ctx)

	recipient := strings.TrimSpace(input.RecipientUserID)
	if recipient == "" {
		return nil, errors.New("notification service: recipient user id is required")
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	query := s.db.WithContext(ctx).
		Where("recipient_user_id = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset))
	if input.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapNotification(row))
	}
	return items, nil
}

// CountUnread returns the number of unread notifications for the recipient.
func (s *NotificationService) CountUnread(ctx context.Context, recipientUserID string) (int64, error) {
	ctx = ensureContext(ctx)

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_user_id = ? AND is_read = ?", strings.TrimSpace(recipientUserID), false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("notification service: count unread: %w", err)
	}
	return count, nil
}

// MarkRead flips a notification to read. The flip is one-way; there is no
// mark-unread operation. A notification owned by another user is reported as
// not found, never mutated.
func (s *NotificationService) MarkRead(ctx context.Context, requestingUserID, notificationID string) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)

	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND recipient_user_id = ?", notificationID, requestingUserID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	if !notification.IsRead {
		now := time.Now().UTC()
		if err := s.db.WithContext(ctx).Model(&notification).
			Updates(map[string]any{
				"is_read": true,
				"read_at": now,
			}).Error; err != nil {
			return nil, fmt.Errorf("notification service: mark read: %w", err)
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}

	dto := mapNotification(notification)
	return &dto, nil
}

// MarkAllRead marks every unread notification for the recipient as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientUserID string) error {
	ctx = ensureContext(ctx)

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_user_id = ? AND is_read = ?", strings.TrimSpace(recipientUserID), false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return fmt.Errorf("notification service: mark all read: %w", err)
	}
	return nil
}

// Delete removes a notification owned by the requesting user. Same ownership
// rule as MarkRead.
func (s *NotificationService) Delete(ctx context.Context, requestingUserID, notificationID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND recipient_user_id = ?", notificationID, requestingUserID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("notification service: delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// PurgeOlderThan removes read notifications created before the retention
// window. Unread notifications are kept regardless of age.
func (s *NotificationService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	ctx = ensureContext(ctx)

	if days <= 0 {
		return 0, errors.New("notification service: retention days must be positive")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := s.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("notification service: purge notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func mapNotification(row models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:                   row.ID,
		Type:                 row.Type,
		Title:                row.Title,
		Message:              row.Message,
		RecipientUserID:      row.RecipientUserID,
		RelatedJobID:         row.RelatedJobID,
		RelatedApplicationID: row.RelatedApplicationID,
		Metadata:             decodeJSON(row.Metadata),
		IsRead:               row.IsRead,
		ReadAt:               row.ReadAt,
		CreatedAt:            row.CreatedAt,
	}
}

func decodeJSON(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
