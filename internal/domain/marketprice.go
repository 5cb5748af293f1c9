package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketPrice is one recorded commodity price at a market on a date.
// The composite unique index replaces the old check-then-insert duplicate
// guard; a violation surfaces as a conflict instead of racing.
type MarketPrice struct {
	PriceID   uuid.UUID `gorm:"column:price_id;type:uuid;primaryKey" json:"id"`
	Commodity string    `gorm:"column:commodity;not null;uniqueIndex:uq_commodity_market_date" json:"commodity"`
	Price     float64   `gorm:"column:price;not null" json:"price"`
	Unit      string    `gorm:"column:unit;not null;default:'USD/ton'" json:"unit"`
	Market    string    `gorm:"column:market;not null;uniqueIndex:uq_commodity_market_date" json:"market"`
	Region    string    `gorm:"column:region;not null" json:"region"`
	Date      time.Time `gorm:"column:date;uniqueIndex:uq_commodity_market_date" json:"date"`
	Source    string    `gorm:"column:source;default:'user'" json:"source"`
}

func (MarketPrice) TableName() string {
	return "market_prices"
}

// BeforeCreate sets price_id if not already set.
func (m *MarketPrice) BeforeCreate(tx *gorm.DB) error {
	if m.PriceID == uuid.Nil {
		m.PriceID = uuid.New()
	}
	return nil
}
