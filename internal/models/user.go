package models

import (
	"golang.org/x/crypto/bcrypt"
)

// UserRole distinguishes the three portals the job board serves.
type UserRole string

const (
	RoleCandidate UserRole = "CANDIDATE"
	RoleEmployer  UserRole = "EMPLOYER"
	RoleAdmin     UserRole = "ADMIN"
)

// User describes a job-board account. Authentication and session handling
// live outside this service; only the fields notification ownership and
// room addressing depend on are modelled here.
type User struct {
	BaseModel

	Email    string   `gorm:"uniqueIndex;not null" json:"email"`
	Name     string   `gorm:"not null" json:"name"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(32);default:'CANDIDATE'" json:"role"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// SetPassword hashes and stores the supplied plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares the stored hash against a plaintext candidate.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
