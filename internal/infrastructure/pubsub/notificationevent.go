// Package pubsub fans committed notifications out over Redis Pub/Sub so other
// processes (websocket gateways, bots) can push them to clients.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/logger"
)

const DefaultNotificationChannel = "campusdesk:notifications"

// NotificationEvent is the wire form published for every delivered notification.
type NotificationEvent struct {
	ID          uint           `json:"id"`
	RecipientID uint           `json:"recipient_id"`
	SenderID    uint           `json:"sender_id"`
	IssueID     uint           `json:"issue_id"`
	Type        string         `json:"type"`
	Message     string         `json:"message"`
	Payload     map[string]any `json:"payload,omitempty"`
	Timestamp   int64          `json:"timestamp"`
}

func NewNotificationEvent(n *domain.Notification) NotificationEvent {
	return NotificationEvent{
		ID:          n.ID(),
		RecipientID: n.RecipientID(),
		SenderID:    n.SenderID(),
		IssueID:     n.IssueID(),
		Type:        n.Type().String(),
		Message:     n.Message(),
		Payload:     n.Payload(),
		Timestamp:   n.CreatedAt().UnixMilli(),
	}
}

// RedisNotificationSink publishes notifications as JSON on one channel.
type RedisNotificationSink struct {
	client  redis.UniversalClient
	channel string
	logger  logger.Interface
}

func NewRedisNotificationSink(client redis.UniversalClient, channel string, logger logger.Interface) *RedisNotificationSink {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &RedisNotificationSink{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (s *RedisNotificationSink) Name() string { return "redis" }

func (s *RedisNotificationSink) Deliver(ctx context.Context, n *domain.Notification) error {
	data, err := json.Marshal(NewNotificationEvent(n))
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	receivers, err := s.client.Publish(ctx, s.channel, data).Result()
	if err != nil {
		s.logger.Errorw("failed to publish notification",
			"notification_id", n.ID(),
			"channel", s.channel,
			"error", err,
		)
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	s.logger.Debugw("notification published",
		"notification_id", n.ID(),
		"channel", s.channel,
		"receivers", receivers,
	)
	return nil
}
