package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one direct message between two users, optionally tied to a listing.
type Message struct {
	MessageID  uuid.UUID  `gorm:"column:message_id;type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index" json:"sender"`
	ReceiverID uuid.UUID  `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiver"`
	Content    string     `gorm:"column:content;not null" json:"content"`
	ListingID  *uuid.UUID `gorm:"column:listing_id;type:uuid" json:"listing,omitempty"`
	Read       bool       `gorm:"column:read;default:false" json:"read"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

// BeforeCreate sets message_id if not already set.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
