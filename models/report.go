package models

import (
	"time"
)

// Report types
const (
	ReportFraud         = "FRAUD"
	ReportPoorService   = "POOR_SERVICE"
	ReportNoShow        = "NO_SHOW"
	ReportInappropriate = "INAPPROPRIATE_BEHAVIOR"
	ReportFakeProfile   = "FAKE_PROFILE"
	ReportSpam          = "SPAM"
	ReportOther         = "OTHER"
)

// Report statuses. Reports are created PENDING; the remaining statuses are
// driven by an administrative back office outside this API.
const (
	ReportStatusPending     = "PENDING"
	ReportStatusUnderReview = "UNDER_REVIEW"
	ReportStatusResolved    = "RESOLVED"
	ReportStatusDismissed   = "DISMISSED"
)

// ValidReportType reports whether t is a known report type
func ValidReportType(t string) bool {
	switch t {
	case ReportFraud, ReportPoorService, ReportNoShow, ReportInappropriate,
		ReportFakeProfile, ReportSpam, ReportOther:
		return true
	}
	return false
}

// Report records a complaint by one user against another, optionally tied to
// a provider profile and a booking.
type Report struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	ReporterID        uint     `gorm:"not null;index" json:"reporter_id"`
	Reporter          User     `gorm:"foreignKey:ReporterID" json:"-"`
	ReportedUserID    uint     `gorm:"not null;index" json:"reported_user_id"`
	ReportedUser      User     `gorm:"foreignKey:ReportedUserID" json:"-"`
	ReportedProfileID *uint    `gorm:"index" json:"reported_profile_id"`
	ReportedProfile   *Profile `gorm:"foreignKey:ReportedProfileID" json:"-"`
	BookingID         *uint    `gorm:"index" json:"booking_id"`
	Booking           *Booking `gorm:"foreignKey:BookingID" json:"-"`

	ReportType    string     `gorm:"size:30;not null" json:"report_type"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	EvidenceImage string     `gorm:"size:255" json:"evidence_image"`
	Status        string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	AdminNotes    string     `gorm:"type:text" json:"admin_notes"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}

// TableName specifies the table name for the Report model
func (Report) TableName() string {
	return "reports"
}
