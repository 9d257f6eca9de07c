package usecases

import (
	"context"
	"fmt"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type DeleteIssueCommand struct {
	IssueID uint
	Actor   authorization.Actor
}

type DeleteIssueUseCase struct {
	txMgr         TransactionRunner
	issues        issue.IssueRepository
	upvotes       issue.UpvoteRepository
	comments      issue.CommentRepository
	history       issue.StatusHistoryRepository
	notifications notification.NotificationRepository
	checker       authorization.CapabilityChecker
	logger        logger.Interface
}

func NewDeleteIssueUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	upvotes issue.UpvoteRepository,
	comments issue.CommentRepository,
	history issue.StatusHistoryRepository,
	notifications notification.NotificationRepository,
	checker authorization.CapabilityChecker,
	logger logger.Interface,
) *DeleteIssueUseCase {
	return &DeleteIssueUseCase{
		txMgr:         txMgr,
		issues:        issues,
		upvotes:       upvotes,
		comments:      comments,
		history:       history,
		notifications: notifications,
		checker:       checker,
		logger:        logger,
	}
}

// Execute removes the issue together with every row that hangs off it.
func (uc *DeleteIssueUseCase) Execute(ctx context.Context, cmd DeleteIssueCommand) error {
	uc.logger.Infow("executing delete issue use case", "issue_id", cmd.IssueID, "actor_id", cmd.Actor.UserID)

	if cmd.IssueID == 0 {
		return errors.NewValidationError("issue ID is required")
	}
	if err := requireManager(ctx, uc.checker, cmd.Actor, uc.logger); err != nil {
		return err
	}

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.issues.GetByIDForUpdate(txCtx, cmd.IssueID); err != nil {
			return translateIssueErr(err, cmd.IssueID)
		}

		steps := []struct {
			name string
			run  func(context.Context, uint) error
		}{
			{"upvotes", uc.upvotes.DeleteByIssue},
			{"comments", uc.comments.DeleteByIssue},
			{"status history", uc.history.DeleteByIssue},
			{"notifications", uc.notifications.DeleteByIssue},
			{"issue", uc.issues.Delete},
		}
		for _, step := range steps {
			if err := step.run(txCtx, cmd.IssueID); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return err
		}
		uc.logger.Errorw("failed to delete issue", "issue_id", cmd.IssueID, "error", err)
		return errors.NewInternalError("failed to delete issue")
	}

	uc.logger.Infow("issue deleted", "issue_id", cmd.IssueID)
	return nil
}
