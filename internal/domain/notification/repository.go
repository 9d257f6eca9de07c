package notification

import (
	"context"
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, id uint) error
	DeleteByIssue(ctx context.Context, issueID uint) error

	// Outbox side.
	ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*Notification, error)
	MarkDelivered(ctx context.Context, ids []uint, at time.Time) error
	IncrementAttempts(ctx context.Context, ids []uint) error
}
