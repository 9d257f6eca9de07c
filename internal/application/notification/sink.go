package notification

import (
	"context"

	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/logger"
)

// Sink delivers a committed notification to one channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *domain.Notification) error
}

// LogSink writes notifications to the structured log. It never fails.
type LogSink struct {
	logger logger.Interface
}

func NewLogSink(logger logger.Interface) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n *domain.Notification) error {
	s.logger.Infow("notification",
		"notification_id", n.ID(),
		"recipient_id", n.RecipientID(),
		"issue_id", n.IssueID(),
		"type", n.Type().String(),
		"message", n.Message(),
	)
	return nil
}
