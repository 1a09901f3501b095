package models

import (
	"time"
)

// Review is attached one-to-one to a completed booking. The unique index on
// BookingID makes a second review for the same booking a constraint
// violation rather than an overwrite.
type Review struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	BookingID  uint    `gorm:"uniqueIndex;not null" json:"booking_id"`
	Booking    Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint    `gorm:"not null;index" json:"user_id"`
	User       User    `gorm:"foreignKey:UserID" json:"-"`
	ProviderID uint    `gorm:"not null;index" json:"provider_id"`
	Provider   Profile `gorm:"foreignKey:ProviderID" json:"-"`

	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
