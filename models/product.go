package models

import (
	"time"
)

// Product conditions
const (
	ConditionNew     = "NEW"
	ConditionLikeNew = "LIKE_NEW"
	ConditionGood    = "GOOD"
	ConditionFair    = "FAIR"
	ConditionPoor    = "POOR"
)

// Product categories
const (
	CategoryElectronics = "ELECTRONICS"
	CategoryFurniture   = "FURNITURE"
	CategoryClothing    = "CLOTHING"
	CategoryBooks       = "BOOKS"
	CategoryAppliances  = "APPLIANCES"
	CategorySports      = "SPORTS"
	CategoryVehicles    = "VEHICLES"
	CategoryOther       = "OTHER"
)

// ValidCondition reports whether c is a known product condition
func ValidCondition(c string) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// ValidProductCategory reports whether c is a known product category
func ValidProductCategory(c string) bool {
	switch c {
	case CategoryElectronics, CategoryFurniture, CategoryClothing, CategoryBooks,
		CategoryAppliances, CategorySports, CategoryVehicles, CategoryOther:
		return true
	}
	return false
}

// Product is a marketplace listing. Deletion is a soft toggle of IsActive;
// inactive products stay queryable by their seller. Views is a monotonic
// counter incremented atomically on each public detail read.
type Product struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SellerID uint   `gorm:"not null;index" json:"seller_id"`
	Seller   User   `gorm:"foreignKey:SellerID" json:"-"`
	Title    string `gorm:"size:100;not null" json:"title"`

	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"size:30;not null" json:"category"`
	Condition   string  `gorm:"size:20;not null" json:"condition"`
	Price       float64 `gorm:"not null" json:"price"`
	Address     string  `gorm:"size:255" json:"address"`
	City        string  `gorm:"size:50;not null" json:"city"`

	MainImage string `gorm:"size:255" json:"main_image"`
	Image2    string `gorm:"size:255" json:"image_2"`
	Image3    string `gorm:"size:255" json:"image_3"`

	ContactPhone    string `gorm:"size:15" json:"contact_phone"`
	ContactWhatsapp string `gorm:"size:15" json:"contact_whatsapp"`
	ContactEmail    string `gorm:"size:50" json:"contact_email"`

	IsSold   bool `gorm:"not null;default:false" json:"is_sold"`
	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	Views    int  `gorm:"not null;default:0" json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductComment is a buyer comment on a listing. The comment's author may
// hard-delete it; the product's seller may only hide it (IsVisible=false).
type ProductComment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"-"`

	Comment     string `gorm:"type:text;not null" json:"comment"`
	ContactInfo string `gorm:"size:100" json:"contact_info"`
	IsVisible   bool   `gorm:"not null;default:true" json:"is_visible"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ProductComment model
func (ProductComment) TableName() string {
	return "product_comments"
}
