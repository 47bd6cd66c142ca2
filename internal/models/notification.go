package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType tags the business event a notification originated from.
// Title and message templating by type is the caller's concern, never the
// notification layer's.
type NotificationType string

const (
	NotificationNewApplication NotificationType = "NEW_APPLICATION_RECEIVED"
	NotificationStatusUpdated  NotificationType = "APPLICATION_STATUS_UPDATED"
	NotificationNewJobPosted   NotificationType = "NEW_JOB_POSTED"
)

// Valid reports whether the type is one of the known notification kinds.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationNewApplication, NotificationStatusUpdated, NotificationNewJobPosted:
		return true
	}
	return false
}

// Notification is the durable record behind every live push. Persistence is
// independent of delivery: a row exists whether or not the recipient had an
// open connection when the event fired.
type Notification struct {
	BaseModel

	Type    NotificationType `gorm:"type:varchar(64);not null" json:"type"`
	Title   string           `gorm:"type:varchar(255);not null" json:"title"`
	Message string           `gorm:"type:text" json:"message"`

	RecipientUserID string `gorm:"type:uuid;index;not null" json:"recipient_user_id"`

	// Weak references for deep-linking; never dereferenced here.
	RelatedJobID         *string `gorm:"type:uuid" json:"related_job_id,omitempty"`
	RelatedApplicationID *string `gorm:"type:uuid" json:"related_application_id,omitempty"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
