package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type ListCommentsQuery struct {
	IssueID uint
}

type ListCommentsUseCase struct {
	issues   issue.IssueRepository
	comments issue.CommentRepository
	renderer dto.MarkdownRenderer
	logger   logger.Interface
}

func NewListCommentsUseCase(
	issues issue.IssueRepository,
	comments issue.CommentRepository,
	renderer dto.MarkdownRenderer,
	logger logger.Interface,
) *ListCommentsUseCase {
	return &ListCommentsUseCase{
		issues:   issues,
		comments: comments,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute returns the top-level comments of the issue, each carrying its replies.
// Nesting depth is not bounded.
func (uc *ListCommentsUseCase) Execute(ctx context.Context, query ListCommentsQuery) ([]*dto.CommentDTO, error) {
	if query.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}

	if _, err := uc.issues.GetByID(ctx, query.IssueID); err != nil {
		return nil, translateIssueErr(err, query.IssueID)
	}

	list, err := uc.comments.ListByIssue(ctx, query.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to list comments", "issue_id", query.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to list comments")
	}

	return dto.ToThreadDTOs(issue.BuildThread(list), uc.renderer), nil
}
