package models

// ApplicationStatus tracks a candidate application through review.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "SUBMITTED"
	ApplicationReviewing ApplicationStatus = "REVIEWING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
)

// Valid reports whether the status is one of the known review stages.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationSubmitted, ApplicationReviewing, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application links a candidate to a job posting. Both application events
// (created, status changed) are delivery trigger points for notifications.
type Application struct {
	BaseModel

	JobID           string            `gorm:"type:uuid;index;not null" json:"job_id"`
	CandidateUserID string            `gorm:"type:uuid;index;not null" json:"candidate_user_id"`
	Status          ApplicationStatus `gorm:"type:varchar(32);default:'SUBMITTED'" json:"status"`
	CoverLetter     string            `gorm:"type:text" json:"cover_letter"`
}
