package models

import (
	"time"
)

// User represents an account in the system. Service-provider status is
// denormalized here from Profile.Role so login responses can report it
// without a join.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"size:50;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	IsServiceProvider bool      `gorm:"not null;default:false" json:"is_service_provider"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
