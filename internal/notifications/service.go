package notifications

import (
	"context"
	"errors"

	"farmlink-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("Notification not found")

// listCap bounds the notification feed like the old 20-item query.
const listCap = 20

type Service struct {
	DB *gorm.DB
}

// Create stores a notification for a user. Called from messaging on send.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, message, typ string, relatedID *uuid.UUID) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:    userID,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a user's notifications, newest first, optionally filtered
// by read state, capped at 20.
func (s *Service) List(ctx context.Context, userID uuid.UUID, read *bool) ([]domain.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if read != nil {
		q = q.Where("read = ?", *read)
	}
	var out []domain.Notification
	if err := q.Order("created_at DESC").Limit(listCap).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAsRead flags one notification as read, scoped to its owner.
func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !n.Read {
		n.Read = true
		if err := s.DB.WithContext(ctx).Save(&n).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}
