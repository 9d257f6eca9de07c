package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type DeleteCommentCommand struct {
	CommentID uint
	Actor     authorization.Actor
}

type DeleteCommentResult struct {
	IssueID uint `json:"issue_id"`
	Removed int  `json:"removed"`
}

type DeleteCommentUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	comments issue.CommentRepository
	counters *CounterKeeper
	checker  authorization.CapabilityChecker
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewDeleteCommentUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	comments issue.CommentRepository,
	counters *CounterKeeper,
	checker authorization.CapabilityChecker,
	metrics MetricsRecorder,
	logger logger.Interface,
) *DeleteCommentUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &DeleteCommentUseCase{
		txMgr:    txMgr,
		issues:   issues,
		comments: comments,
		counters: counters,
		checker:  checker,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute deletes the comment and every reply below it, and lowers the issue's
// comment counter by the number of rows actually removed.
func (uc *DeleteCommentUseCase) Execute(ctx context.Context, cmd DeleteCommentCommand) (*DeleteCommentResult, error) {
	uc.logger.Infow("executing delete comment use case", "comment_id", cmd.CommentID, "actor_id", cmd.Actor.UserID)

	if cmd.CommentID == 0 {
		return nil, errors.NewValidationError("comment ID is required")
	}

	target, err := uc.getComment(ctx, cmd.CommentID)
	if err != nil {
		return nil, err
	}
	if target.AuthorID() != cmd.Actor.UserID {
		if err := requireManager(ctx, uc.checker, cmd.Actor, uc.logger); err != nil {
			return nil, err
		}
	}

	var removed int64
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.issues.GetByIDForUpdate(txCtx, target.IssueID()); err != nil {
			return translateIssueErr(err, target.IssueID())
		}

		// Re-read under the lock; a concurrent delete may have removed it already.
		if _, err := uc.getComment(txCtx, cmd.CommentID); err != nil {
			return err
		}

		all, err := uc.comments.ListByIssue(txCtx, target.IssueID())
		if err != nil {
			return fmt.Errorf("failed to load comments: %w", err)
		}

		removed, err = uc.comments.DeleteByIDs(txCtx, issue.SubtreeIDs(all, cmd.CommentID))
		if err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := uc.counters.AddComments(txCtx, target.IssueID(), -int(removed)); err != nil {
			return fmt.Errorf("failed to adjust comment counter: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to delete comment", "comment_id", cmd.CommentID, "error", err)
		return nil, errors.NewInternalError("failed to delete comment")
	}

	uc.metrics.RecordCommentsDeleted(int(removed))
	uc.logger.Infow("comment deleted", "comment_id", cmd.CommentID, "issue_id", target.IssueID(), "removed", removed)

	return &DeleteCommentResult{IssueID: target.IssueID(), Removed: int(removed)}, nil
}

func (uc *DeleteCommentUseCase) getComment(ctx context.Context, id uint) (*issue.Comment, error) {
	c, err := uc.comments.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, issue.ErrCommentNotFound) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("comment %d not found", id))
		}
		uc.logger.Errorw("failed to get comment", "comment_id", id, "error", err)
		return nil, errors.NewInternalError("failed to get comment")
	}
	return c, nil
}
