package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"farmlink-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))
	return &Service{DB: db}
}

func TestList_FilterAndCap(t *testing.T) {
	svc := setupNotificationTest(t)
	ctx := context.Background()
	user := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		n := domain.Notification{
			UserID:    user,
			Message:   fmt.Sprintf("note %d", i),
			Type:      domain.NotificationSystem,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, svc.DB.Create(&n).Error)
	}

	out, err := svc.List(ctx, user, nil)
	require.NoError(t, err)
	require.Len(t, out, 20)
	assert.Equal(t, "note 24", out[0].Message)

	unread := false
	out, err = svc.List(ctx, user, &unread)
	require.NoError(t, err)
	assert.Len(t, out, 20)

	read := true
	out, err = svc.List(ctx, user, &read)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarkAsRead_ScopedToOwner(t *testing.T) {
	svc := setupNotificationTest(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	n, err := svc.Create(ctx, owner, "you have mail", domain.NotificationMessage, nil)
	require.NoError(t, err)

	_, err = svc.MarkAsRead(ctx, n.NotificationID, stranger)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.MarkAsRead(ctx, n.NotificationID, owner)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	// Idempotent on a second call.
	updated, err = svc.MarkAsRead(ctx, n.NotificationID, owner)
	require.NoError(t, err)
	assert.True(t, updated.Read)
}
