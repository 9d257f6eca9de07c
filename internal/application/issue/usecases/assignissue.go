package usecases

import (
	"context"
	"fmt"
	"time"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	notifvo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type AssignIssueCommand struct {
	IssueID             uint
	Actor               authorization.Actor
	AssigneeID          uint
	EstimatedResolution *time.Duration
}

type AssignIssueUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	checker  authorization.CapabilityChecker
	notifier Notifier
	logger   logger.Interface
}

func NewAssignIssueUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	checker authorization.CapabilityChecker,
	notifier Notifier,
	logger logger.Interface,
) *AssignIssueUseCase {
	return &AssignIssueUseCase{
		txMgr:    txMgr,
		issues:   issues,
		checker:  checker,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *AssignIssueUseCase) Execute(ctx context.Context, cmd AssignIssueCommand) (*dto.IssueDTO, error) {
	uc.logger.Infow("executing assign issue use case", "issue_id", cmd.IssueID, "assignee_id", cmd.AssigneeID, "actor_id", cmd.Actor.UserID)

	if cmd.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}
	if cmd.AssigneeID == 0 {
		return nil, errors.NewValidationError("assignee ID is required")
	}
	if cmd.EstimatedResolution != nil && *cmd.EstimatedResolution <= 0 {
		return nil, errors.NewValidationError("estimated resolution must be positive")
	}
	if err := requireManager(ctx, uc.checker, cmd.Actor, uc.logger); err != nil {
		return nil, err
	}

	var updated *issue.Issue
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		i, err := uc.issues.GetByIDForUpdate(txCtx, cmd.IssueID)
		if err != nil {
			return translateIssueErr(err, cmd.IssueID)
		}

		previous := i.AssigneeID()
		if err := i.AssignTo(cmd.AssigneeID, cmd.EstimatedResolution); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.issues.Update(txCtx, i); err != nil {
			return fmt.Errorf("failed to update issue: %w", err)
		}

		if previous == nil || *previous != cmd.AssigneeID {
			enqueue(txCtx, uc.notifier, uc.logger, notification.Draft{
				RecipientID: cmd.AssigneeID,
				SenderID:    cmd.Actor.UserID,
				IssueID:     i.ID(),
				Type:        notifvo.NotificationTypeAssignmentChanged,
				Message:     fmt.Sprintf("You were assigned to %q", i.Title()),
				Payload:     map[string]any{"assignee_id": cmd.AssigneeID},
			})
		}
		updated = i
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to assign issue", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to assign issue")
	}

	nudge(uc.notifier)
	uc.logger.Infow("issue assigned", "issue_id", updated.ID(), "assignee_id", cmd.AssigneeID)
	return dto.ToIssueDTO(updated, dto.Viewer{UserID: cmd.Actor.UserID, CanManage: true}, false), nil
}
