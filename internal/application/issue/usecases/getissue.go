package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type GetIssueQuery struct {
	IssueID uint
	Viewer  authorization.Actor
}

type GetIssueUseCase struct {
	issues  issue.IssueRepository
	upvotes issue.UpvoteRepository
	checker authorization.CapabilityChecker
	logger  logger.Interface
}

func NewGetIssueUseCase(
	issues issue.IssueRepository,
	upvotes issue.UpvoteRepository,
	checker authorization.CapabilityChecker,
	logger logger.Interface,
) *GetIssueUseCase {
	return &GetIssueUseCase{
		issues:  issues,
		upvotes: upvotes,
		checker: checker,
		logger:  logger,
	}
}

func (uc *GetIssueUseCase) Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error) {
	if query.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}

	i, err := uc.issues.GetByID(ctx, query.IssueID)
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Debugw("failed to get issue", "issue_id", query.IssueID, "error", err)
		}
		return nil, translateIssueErr(err, query.IssueID)
	}

	upvoted := false
	if query.Viewer.UserID != 0 {
		u, err := uc.upvotes.Find(ctx, i.ID(), query.Viewer.UserID)
		if err != nil {
			uc.logger.Errorw("failed to look up upvote", "issue_id", i.ID(), "user_id", query.Viewer.UserID, "error", err)
			return nil, errors.NewInternalError("failed to get issue")
		}
		upvoted = u != nil
	}

	viewer := dto.Viewer{
		UserID:    query.Viewer.UserID,
		CanManage: canManage(ctx, uc.checker, query.Viewer, uc.logger),
	}
	return dto.ToIssueDTO(i, viewer, upvoted), nil
}
