package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "campusdesk/internal/domain/notification"
	vo "campusdesk/internal/domain/notification/valueobjects"
	apperrors "campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

func newStoredNotification(t *testing.T, id, recipientID uint, read bool) *domain.Notification {
	t.Helper()
	n, err := domain.ReconstructNotification(id, recipientID, 2, 3, vo.NotificationTypeIssueUpdated,
		"Issue moved to In Progress", map[string]any{"new_status": "in_progress"}, read, 1, nil, time.Now().UTC())
	require.NoError(t, err)
	return n
}

func TestListNotifications_Execute(t *testing.T) {
	var gotLimit, gotOffset int
	var gotUnread bool
	repo := &mockNotificationRepository{
		ListByRecipientFunc: func(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
			gotUnread, gotLimit, gotOffset = unreadOnly, limit, offset
			return []*domain.Notification{newStoredNotification(t, 1, recipientID, false)}, 21, nil
		},
		CountUnreadFunc: func(ctx context.Context, recipientID uint) (int64, error) { return 4, nil },
	}
	uc := NewListNotificationsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), ListNotificationsQuery{RecipientID: 7, UnreadOnly: true, Page: 2, PageSize: 10})

	require.NoError(t, err)
	assert.True(t, gotUnread)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, int64(21), result.Total)
	assert.Equal(t, int64(4), result.UnreadCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "issue_updated", result.Items[0].Type)
	assert.Equal(t, "in_progress", result.Items[0].Payload["new_status"])
}

func TestListNotifications_Execute_Errors(t *testing.T) {
	uc := NewListNotificationsUseCase(&mockNotificationRepository{}, logger.NewNop())
	_, err := uc.Execute(context.Background(), ListNotificationsQuery{})
	assert.True(t, apperrors.IsValidationError(err))

	failing := &mockNotificationRepository{
		ListByRecipientFunc: func(context.Context, uint, bool, int, int) ([]*domain.Notification, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}
	_, err = NewListNotificationsUseCase(failing, logger.NewNop()).Execute(context.Background(), ListNotificationsQuery{RecipientID: 1})
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
}

func TestMarkNotificationRead_Execute(t *testing.T) {
	tests := []struct {
		name       string
		stored     func(t *testing.T) (*domain.Notification, error)
		cmd        MarkNotificationReadCommand
		wantMarked bool
		check      func(err error) bool
	}{
		{
			name:       "own unread notification",
			stored:     func(t *testing.T) (*domain.Notification, error) { return newStoredNotification(t, 5, 7, false), nil },
			cmd:        MarkNotificationReadCommand{NotificationID: 5, RecipientID: 7},
			wantMarked: true,
			check:      func(err error) bool { return err == nil },
		},
		{
			name:   "already read is a no-op",
			stored: func(t *testing.T) (*domain.Notification, error) { return newStoredNotification(t, 5, 7, true), nil },
			cmd:    MarkNotificationReadCommand{NotificationID: 5, RecipientID: 7},
			check:  func(err error) bool { return err == nil },
		},
		{
			name:   "someone else's notification looks missing",
			stored: func(t *testing.T) (*domain.Notification, error) { return newStoredNotification(t, 5, 8, false), nil },
			cmd:    MarkNotificationReadCommand{NotificationID: 5, RecipientID: 7},
			check:  apperrors.IsNotFoundError,
		},
		{
			name:   "missing notification",
			stored: func(t *testing.T) (*domain.Notification, error) { return nil, domain.ErrNotificationNotFound },
			cmd:    MarkNotificationReadCommand{NotificationID: 5, RecipientID: 7},
			check:  apperrors.IsNotFoundError,
		},
		{
			name:   "zero id",
			stored: func(t *testing.T) (*domain.Notification, error) { return nil, nil },
			cmd:    MarkNotificationReadCommand{RecipientID: 7},
			check:  apperrors.IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marked := false
			repo := &mockNotificationRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*domain.Notification, error) { return tt.stored(t) },
				MarkAsReadFunc: func(ctx context.Context, id uint) error {
					marked = true
					return nil
				},
			}
			err := NewMarkNotificationReadUseCase(repo, logger.NewNop()).Execute(context.Background(), tt.cmd)

			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Equal(t, tt.wantMarked, marked)
		})
	}
}
