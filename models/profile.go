package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Profile roles
const (
	RoleUser    = "USER"
	RoleService = "SERVICE"
)

// Pricing types for service providers
const (
	PricingFixed    = "FIXED"
	PricingFlexible = "FLEXIBLE"
)

// StringList is a []string stored as a JSON-encoded TEXT column. Categories
// and service locations are loose string lists with no referential integrity.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Contains reports whether s is a member of the list
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Profile is the one-to-one extension of a User. Service-provider fields are
// only meaningful when Role is SERVICE; marketplace fields when the user has
// listed at least one product. Rating/TotalReviews and the marketplace
// aggregates are maintained by review creation only, never by profile edits.
type Profile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"-"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Avatar   string `gorm:"size:255" json:"avatar"`
	Role     string `gorm:"size:10;not null;default:'USER'" json:"role"`
	Bio      string `gorm:"size:500" json:"bio"`
	Phone    string `gorm:"size:15" json:"phone"`
	Location string `gorm:"size:50" json:"location"`

	// Service provider fields
	ExperienceYears  int        `gorm:"not null;default:0" json:"experience_years"`
	PricingType      string     `gorm:"size:20" json:"pricing_type"`
	BasePrice        *float64   `json:"base_price"`
	IsAvailable      bool       `gorm:"not null;default:true" json:"is_available"`
	Rating           float64    `gorm:"not null;default:0" json:"rating"`
	TotalReviews     int        `gorm:"not null;default:0" json:"total_reviews"`
	Categories       StringList `gorm:"type:text" json:"categories"`
	ServiceLocations StringList `gorm:"type:text" json:"service_locations"`
	Availability     string     `gorm:"size:100" json:"availability"`
	Description      string     `gorm:"size:200" json:"description"`

	// Marketplace seller fields
	IsMarketplaceSeller bool    `gorm:"not null;default:false" json:"is_marketplace_seller"`
	MarketplaceRating   float64 `gorm:"not null;default:0" json:"marketplace_rating"`
	MarketplaceReviews  int     `gorm:"not null;default:0" json:"marketplace_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// IsProvider reports whether this profile can receive bookings
func (p *Profile) IsProvider() bool {
	return p.Role == RoleService
}
