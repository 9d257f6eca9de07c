// Package notification holds the notification outbox: the Notifier writes rows in the
// caller's transaction and the Relay hands committed rows to delivery sinks.
package notification

import (
	"context"
	"fmt"

	domain "campusdesk/internal/domain/notification"
	vo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/logger"
)

// Draft describes one notification before it is persisted.
type Draft struct {
	RecipientID uint
	SenderID    uint
	IssueID     uint
	Type        vo.NotificationType
	Message     string
	Payload     map[string]any
}

type draftKey struct {
	recipientID uint
	issueID     uint
	notifType   vo.NotificationType
}

// Waker is anything that can be told new outbox rows exist.
type Waker interface {
	Nudge()
}

type Notifier struct {
	repo   domain.NotificationRepository
	waker  Waker
	logger logger.Interface
}

func NewNotifier(repo domain.NotificationRepository, waker Waker, logger logger.Interface) *Notifier {
	return &Notifier{
		repo:   repo,
		waker:  waker,
		logger: logger,
	}
}

// Enqueue persists drafts through the repository bound to ctx, so rows commit or roll
// back with the caller's transaction. Drafts addressed to nobody or to their own sender
// are dropped, as are repeats of the same (recipient, issue, type) within one call.
func (n *Notifier) Enqueue(ctx context.Context, drafts ...Draft) (int, error) {
	seen := make(map[draftKey]bool, len(drafts))
	entities := make([]*domain.Notification, 0, len(drafts))

	for _, d := range drafts {
		if d.RecipientID == 0 || d.RecipientID == d.SenderID {
			continue
		}
		key := draftKey{recipientID: d.RecipientID, issueID: d.IssueID, notifType: d.Type}
		if seen[key] {
			continue
		}
		seen[key] = true

		entity, err := domain.NewNotification(d.RecipientID, d.SenderID, d.IssueID, d.Type, d.Message, d.Payload)
		if err != nil {
			return 0, fmt.Errorf("invalid notification draft: %w", err)
		}
		entities = append(entities, entity)
	}

	if len(entities) == 0 {
		return 0, nil
	}

	if err := n.repo.CreateBatch(ctx, entities); err != nil {
		return 0, err
	}

	n.logger.Debugw("notifications enqueued", "count", len(entities))
	return len(entities), nil
}

// Nudge tells the relay to look for fresh rows. Call it after the enclosing
// transaction committed.
func (n *Notifier) Nudge() {
	if n.waker != nil {
		n.waker.Nudge()
	}
}
