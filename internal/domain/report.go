package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a user complaint about a user, listing or message.
type Report struct {
	ReportID     uuid.UUID  `gorm:"column:report_id;type:uuid;primaryKey" json:"id"`
	ReporterID   uuid.UUID  `gorm:"column:reporter_id;type:uuid;not null;index" json:"reporter"`
	ReportedItem string     `gorm:"column:reported_item;type:varchar(20);not null" json:"reportedItem"`
	ItemID       uuid.UUID  `gorm:"column:item_id;type:uuid;not null" json:"itemId"`
	Reason       string     `gorm:"column:reason;not null" json:"reason"`
	Status       string     `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	ActionTaken  string     `gorm:"column:action_taken" json:"actionTaken,omitempty"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	ResolvedByID *uuid.UUID `gorm:"column:resolved_by_id;type:uuid" json:"resolvedBy,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}

// BeforeCreate sets report_id if not already set.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ReportID == uuid.Nil {
		r.ReportID = uuid.New()
	}
	return nil
}
