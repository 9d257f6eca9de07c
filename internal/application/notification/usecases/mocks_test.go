package usecases

import (
	"context"
	"time"

	domain "campusdesk/internal/domain/notification"
)

type mockNotificationRepository struct {
	CreateBatchFunc       func(ctx context.Context, list []*domain.Notification) error
	GetByIDFunc           func(ctx context.Context, id uint) (*domain.Notification, error)
	ListByRecipientFunc   func(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error)
	CountUnreadFunc       func(ctx context.Context, recipientID uint) (int64, error)
	MarkAsReadFunc        func(ctx context.Context, id uint) error
	DeleteByIssueFunc     func(ctx context.Context, issueID uint) error
	ListUndeliveredFunc   func(ctx context.Context, maxAttempts, limit int) ([]*domain.Notification, error)
	MarkDeliveredFunc     func(ctx context.Context, ids []uint, at time.Time) error
	IncrementAttemptsFunc func(ctx context.Context, ids []uint) error
}

func (m *mockNotificationRepository) CreateBatch(ctx context.Context, list []*domain.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, list)
	}
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uint) (*domain.Notification, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotificationNotFound
}

func (m *mockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*domain.Notification, int64, error) {
	if m.ListByRecipientFunc != nil {
		return m.ListByRecipientFunc(ctx, recipientID, unreadOnly, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, recipientID)
	}
	return 0, nil
}

func (m *mockNotificationRepository) MarkAsRead(ctx context.Context, id uint) error {
	if m.MarkAsReadFunc != nil {
		return m.MarkAsReadFunc(ctx, id)
	}
	return nil
}

func (m *mockNotificationRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if m.DeleteByIssueFunc != nil {
		return m.DeleteByIssueFunc(ctx, issueID)
	}
	return nil
}

func (m *mockNotificationRepository) ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*domain.Notification, error) {
	if m.ListUndeliveredFunc != nil {
		return m.ListUndeliveredFunc(ctx, maxAttempts, limit)
	}
	return nil, nil
}

func (m *mockNotificationRepository) MarkDelivered(ctx context.Context, ids []uint, at time.Time) error {
	if m.MarkDeliveredFunc != nil {
		return m.MarkDeliveredFunc(ctx, ids, at)
	}
	return nil
}

func (m *mockNotificationRepository) IncrementAttempts(ctx context.Context, ids []uint) error {
	if m.IncrementAttemptsFunc != nil {
		return m.IncrementAttemptsFunc(ctx, ids)
	}
	return nil
}
