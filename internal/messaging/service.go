package messaging

import (
	"context"
	"errors"
	"fmt"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/notifications"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReceiverNotFound = errors.New("Receiver not found")

type Service struct {
	DB            *gorm.DB
	Notifications *notifications.Service
}

// SendMessage stores the message and notifies the receiver.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string, listingID *uuid.UUID) (*domain.Message, error) {
	var receiver domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", receiverID).First(&receiver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ListingID:  listingID,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}

	var sender domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", senderID).First(&sender).Error; err == nil {
		id := msg.MessageID
		_, _ = s.Notifications.Create(ctx, receiverID,
			fmt.Sprintf("New message from %s", sender.FirstName),
			domain.NotificationMessage, &id)
	}
	return msg, nil
}

// GetMessages returns the thread between two users oldest-first, marking
// unread incoming messages from that counterpart as read.
func (s *Service) GetMessages(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read = ?", userID, otherID, false).
		Update("read", true).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Conversation is the derived per-counterpart projection. Never stored.
type Conversation struct {
	UserID         uuid.UUID      `json:"userId"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	ProfilePicture string         `json:"profilePicture"`
	LastMessage    domain.Message `json:"lastMessage"`
	UnreadCount    int            `json:"unreadCount"`
}

// GetConversations groups the caller's messages by counterpart: newest
// message first per group, unread counted for incoming unread messages.
// The reduction runs over the date-descending slice, so the first message
// seen per counterpart is that conversation's last message.
func (s *Service) GetConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	var msgs []domain.Message
	if err := s.DB.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, message_id").
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	order := make([]uuid.UUID, 0)
	byCounterpart := make(map[uuid.UUID]*Conversation)
	for _, m := range msgs {
		counterpart := m.SenderID
		if m.SenderID == userID {
			counterpart = m.ReceiverID
		}
		conv, ok := byCounterpart[counterpart]
		if !ok {
			conv = &Conversation{UserID: counterpart, LastMessage: m}
			byCounterpart[counterpart] = conv
			order = append(order, counterpart)
		}
		if m.ReceiverID == userID && !m.Read {
			conv.UnreadCount++
		}
	}
	if len(order) == 0 {
		return []Conversation{}, nil
	}

	var counterparts []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", order).Find(&counterparts).Error; err != nil {
		return nil, err
	}
	userByID := make(map[uuid.UUID]domain.User, len(counterparts))
	for _, u := range counterparts {
		userByID[u.UserID] = u
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		conv := byCounterpart[id]
		if u, ok := userByID[id]; ok {
			conv.FirstName = u.FirstName
			conv.LastName = u.LastName
			conv.ProfilePicture = u.ProfilePicture
		}
		out = append(out, *conv)
	}
	return out, nil
}
