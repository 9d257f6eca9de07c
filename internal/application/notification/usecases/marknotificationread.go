package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type MarkNotificationReadCommand struct {
	NotificationID uint
	RecipientID    uint
}

type MarkNotificationReadUseCase struct {
	repo   domain.NotificationRepository
	logger logger.Interface
}

func NewMarkNotificationReadUseCase(repo domain.NotificationRepository, logger logger.Interface) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute marks the notification read. Another user's notification is reported as
// missing so ids cannot be probed.
func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if cmd.NotificationID == 0 {
		return errors.NewValidationError("notification ID is required")
	}
	if cmd.RecipientID == 0 {
		return errors.NewValidationError("recipient ID is required")
	}

	n, err := uc.repo.GetByID(ctx, cmd.NotificationID)
	if err != nil {
		if stderrors.Is(err, domain.ErrNotificationNotFound) {
			return errors.NewNotFoundError(fmt.Sprintf("notification %d not found", cmd.NotificationID))
		}
		uc.logger.Errorw("failed to get notification", "notification_id", cmd.NotificationID, "error", err)
		return errors.NewInternalError("failed to get notification")
	}

	if !n.BelongsTo(cmd.RecipientID) {
		uc.logger.Warnw("notification read by non-recipient",
			"notification_id", cmd.NotificationID,
			"user_id", cmd.RecipientID,
		)
		return errors.NewNotFoundError(fmt.Sprintf("notification %d not found", cmd.NotificationID))
	}

	if n.IsRead() {
		return nil
	}

	if err := uc.repo.MarkAsRead(ctx, n.ID()); err != nil {
		uc.logger.Errorw("failed to mark notification read", "notification_id", n.ID(), "error", err)
		return errors.NewInternalError("failed to mark notification as read")
	}
	return nil
}
