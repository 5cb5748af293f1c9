package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingCategories is the allowed category enum.
var ListingCategories = []string{"produce", "livestock", "tools", "equipment"}

// ValidListingCategory reports whether c is one of the allowed categories.
func ValidListingCategory(c string) bool {
	for _, v := range ListingCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Listing is a marketplace item owned by its seller.
type Listing struct {
	ListingID   uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;not null" json:"description"`
	Price       float64        `gorm:"column:price;not null" json:"price"`
	Category    string         `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Quantity    float64        `gorm:"column:quantity;not null" json:"quantity"`
	Unit        string         `gorm:"column:unit;not null" json:"unit"`
	Images      datatypes.JSON `gorm:"column:images" json:"images"`
	Location    Coordinates    `gorm:"column:location;type:json" json:"location"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index" json:"seller"`
	IsActive    bool           `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets listing_id if not already set.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
