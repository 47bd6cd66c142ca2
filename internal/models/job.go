package models

// JobStatus tracks a posting's lifecycle.
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
)

// Job is a posted position. The notification layer only ever references jobs
// by id; the full CRUD surface lives in the employer portal.
type Job struct {
	BaseModel

	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Status      JobStatus `gorm:"type:varchar(32);default:'OPEN';index" json:"status"`

	EmployerUserID string `gorm:"type:uuid;index;not null" json:"employer_user_id"`
}
