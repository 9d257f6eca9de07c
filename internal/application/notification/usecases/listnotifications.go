package usecases

import (
	"context"

	"campusdesk/internal/application/notification/dto"
	domain "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type ListNotificationsQuery struct {
	RecipientID uint
	UnreadOnly  bool
	Page        int
	PageSize    int
}

type ListNotificationsUseCase struct {
	repo   domain.NotificationRepository
	logger logger.Interface
}

func NewListNotificationsUseCase(repo domain.NotificationRepository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, query ListNotificationsQuery) (*dto.NotificationListDTO, error) {
	if query.RecipientID == 0 {
		return nil, errors.NewValidationError("recipient ID is required")
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	offset := (p.Page - 1) * p.PageSize

	list, total, err := uc.repo.ListByRecipient(ctx, query.RecipientID, query.UnreadOnly, p.PageSize, offset)
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "recipient_id", query.RecipientID, "error", err)
		return nil, errors.NewInternalError("failed to list notifications")
	}

	unread, err := uc.repo.CountUnread(ctx, query.RecipientID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "recipient_id", query.RecipientID, "error", err)
		return nil, errors.NewInternalError("failed to list notifications")
	}

	return &dto.NotificationListDTO{
		Items:       dto.ToNotificationDTOs(list),
		Total:       total,
		UnreadCount: unread,
		Page:        p.Page,
		PageSize:    p.PageSize,
	}, nil
}
