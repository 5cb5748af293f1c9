package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationMessage = "message"
	NotificationListing = "listing"
	NotificationMarket  = "market"
	NotificationSystem  = "system"
)

// Notification is an unread/read flag item shown to a user.
type Notification struct {
	NotificationID uuid.UUID  `gorm:"column:notification_id;type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user"`
	Message        string     `gorm:"column:message;not null" json:"message"`
	Type           string     `gorm:"column:type;type:varchar(20);not null" json:"type"`
	RelatedID      *uuid.UUID `gorm:"column:related_id;type:uuid" json:"relatedId,omitempty"`
	Read           bool       `gorm:"column:read;default:false" json:"read"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate sets notification_id if not already set.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
