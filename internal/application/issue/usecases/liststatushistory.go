package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type ListStatusHistoryQuery struct {
	IssueID uint
}

type ListStatusHistoryUseCase struct {
	issues  issue.IssueRepository
	history issue.StatusHistoryRepository
	logger  logger.Interface
}

func NewListStatusHistoryUseCase(
	issues issue.IssueRepository,
	history issue.StatusHistoryRepository,
	logger logger.Interface,
) *ListStatusHistoryUseCase {
	return &ListStatusHistoryUseCase{
		issues:  issues,
		history: history,
		logger:  logger,
	}
}

func (uc *ListStatusHistoryUseCase) Execute(ctx context.Context, query ListStatusHistoryQuery) ([]*dto.StatusHistoryDTO, error) {
	if query.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}

	if _, err := uc.issues.GetByID(ctx, query.IssueID); err != nil {
		return nil, translateIssueErr(err, query.IssueID)
	}

	entries, err := uc.history.ListByIssue(ctx, query.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to list status history", "issue_id", query.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to list status history")
	}
	return dto.ToStatusHistoryDTOs(entries), nil
}
