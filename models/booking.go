package models

import (
	"time"
)

// Booking statuses
const (
	BookingPending    = "PENDING"
	BookingQuoteGiven = "QUOTE_GIVEN"
	BookingAccepted   = "ACCEPTED"
	BookingInProgress = "IN_PROGRESS"
	BookingCompleted  = "COMPLETED"
	BookingRejected   = "REJECTED"
	BookingCancelled  = "CANCELLED"
)

// TransitionActor identifies which side of a booking may request a transition
type TransitionActor int

const (
	ActorUser TransitionActor = iota
	ActorProvider
)

// bookingTransitions is the full edge set of the booking state machine,
// keyed by current status, with the actor allowed to drive each edge.
var bookingTransitions = map[string]map[string]TransitionActor{
	BookingPending: {
		BookingQuoteGiven: ActorProvider,
		BookingRejected:   ActorProvider,
		BookingCancelled:  ActorUser,
	},
	BookingQuoteGiven: {
		BookingAccepted:  ActorUser,
		BookingCancelled: ActorUser,
	},
	BookingAccepted: {
		BookingInProgress: ActorProvider,
	},
	BookingInProgress: {
		BookingCompleted: ActorProvider,
	},
}

// CanTransition reports whether the given actor may move a booking from one
// status to another. Unknown statuses and terminal states have no outgoing
// edges.
func CanTransition(from, to string, actor TransitionActor) bool {
	edges, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	allowed, ok := edges[to]
	return ok && allowed == actor
}

// IsTerminalStatus reports whether a booking status has no outgoing edges
func IsTerminalStatus(status string) bool {
	_, ok := bookingTransitions[status]
	return !ok
}

// Booking is a service request from a user to a provider. Its lifecycle runs
// PENDING -> QUOTE_GIVEN -> ACCEPTED -> IN_PROGRESS -> COMPLETED, with
// REJECTED and CANCELLED as terminal exits from the early stages. Each stage
// transition stamps its timestamp exactly once.
type Booking struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	UserID            uint     `gorm:"not null;index" json:"user_id"`
	User              User     `gorm:"foreignKey:UserID" json:"-"`
	ServiceProviderID uint     `gorm:"not null;index" json:"provider_id"`
	ServiceProvider   Profile  `gorm:"foreignKey:ServiceProviderID" json:"-"`
	ServiceCategory   string   `gorm:"size:100;not null" json:"service_category"`
	Description       string   `gorm:"type:text;not null" json:"description"`
	Address           string   `gorm:"type:text;not null" json:"address"`
	ScheduledDate     time.Time `gorm:"not null" json:"scheduled_date"`
	QuotePrice        *float64 `json:"quote_price"` // set by provider when quoting
	FinalPrice        *float64 `json:"final_price"` // set at completion, defaults to quote
	Status            string   `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ProviderNotes     string   `gorm:"type:text" json:"provider_notes"`
	UserNotes         string   `gorm:"type:text" json:"user_notes"`

	QuotedAt    *time.Time `json:"quoted_at"`
	AcceptedAt  *time.Time `json:"accepted_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
