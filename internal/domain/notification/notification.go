package notification

import (
	"fmt"
	"time"

	vo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/biztime"
)

const maxMessageLength = 1000

// Notification is a message to one recipient about an issue. Rows double as the
// delivery outbox: deliveredAt is set once every sink accepted the message.
type Notification struct {
	id               uint
	recipientID      uint
	senderID         uint
	issueID          uint
	notificationType vo.NotificationType
	message          string
	payload          map[string]any
	isRead           bool
	attempts         int
	deliveredAt      *time.Time
	createdAt        time.Time
}

func NewNotification(
	recipientID uint,
	senderID uint,
	issueID uint,
	notificationType vo.NotificationType,
	message string,
	payload map[string]any,
) (*Notification, error) {
	if recipientID == 0 {
		return nil, fmt.Errorf("recipient ID is required")
	}
	if senderID == 0 {
		return nil, fmt.Errorf("sender ID is required")
	}
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type: %s", notificationType)
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("message is required")
	}
	if len(message) > maxMessageLength {
		message = message[:maxMessageLength]
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &Notification{
		recipientID:      recipientID,
		senderID:         senderID,
		issueID:          issueID,
		notificationType: notificationType,
		message:          message,
		payload:          payload,
		createdAt:        biztime.NowUTC(),
	}, nil
}

func ReconstructNotification(
	id uint,
	recipientID uint,
	senderID uint,
	issueID uint,
	notificationType vo.NotificationType,
	message string,
	payload map[string]any,
	isRead bool,
	attempts int,
	deliveredAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type: %s", notificationType)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &Notification{
		id:               id,
		recipientID:      recipientID,
		senderID:         senderID,
		issueID:          issueID,
		notificationType: notificationType,
		message:          message,
		payload:          payload,
		isRead:           isRead,
		attempts:         attempts,
		deliveredAt:      deliveredAt,
		createdAt:        createdAt,
	}, nil
}

func (n *Notification) ID() uint                  { return n.id }
func (n *Notification) RecipientID() uint         { return n.recipientID }
func (n *Notification) SenderID() uint            { return n.senderID }
func (n *Notification) IssueID() uint             { return n.issueID }
func (n *Notification) Type() vo.NotificationType { return n.notificationType }
func (n *Notification) Message() string           { return n.message }
func (n *Notification) IsRead() bool              { return n.isRead }
func (n *Notification) Attempts() int             { return n.attempts }
func (n *Notification) DeliveredAt() *time.Time   { return n.deliveredAt }
func (n *Notification) CreatedAt() time.Time      { return n.createdAt }
func (n *Notification) IsDelivered() bool         { return n.deliveredAt != nil }

func (n *Notification) Payload() map[string]any {
	out := make(map[string]any, len(n.payload))
	for k, v := range n.payload {
		out[k] = v
	}
	return out
}

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

// MarkAsRead is idempotent.
func (n *Notification) MarkAsRead() {
	n.isRead = true
}

// BelongsTo reports whether userID is the recipient.
func (n *Notification) BelongsTo(userID uint) bool {
	return n.recipientID == userID
}
