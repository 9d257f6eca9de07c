package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"unicode/utf8"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	notifvo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/constants"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type TransitionStatusCommand struct {
	IssueID   uint
	Actor     authorization.Actor
	NewStatus string
	Comment   string
}

type TransitionStatusResult struct {
	Issue   *dto.IssueDTO         `json:"issue"`
	History *dto.StatusHistoryDTO `json:"history"`
}

type TransitionStatusUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	history  issue.StatusHistoryRepository
	policy   vo.TransitionPolicy
	checker  authorization.CapabilityChecker
	notifier Notifier
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewTransitionStatusUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	history issue.StatusHistoryRepository,
	policy vo.TransitionPolicy,
	checker authorization.CapabilityChecker,
	notifier Notifier,
	metrics MetricsRecorder,
	logger logger.Interface,
) *TransitionStatusUseCase {
	if policy == nil {
		policy = vo.PermissiveTransitions{}
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &TransitionStatusUseCase{
		txMgr:    txMgr,
		issues:   issues,
		history:  history,
		policy:   policy,
		checker:  checker,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute applies a status change. Capability and input are checked before the
// transaction starts; the issue row is then locked so concurrent transitions on the
// same issue serialize and every applied change leaves exactly one history row.
func (uc *TransitionStatusUseCase) Execute(ctx context.Context, cmd TransitionStatusCommand) (*TransitionStatusResult, error) {
	uc.logger.Infow("executing transition status use case",
		"issue_id", cmd.IssueID,
		"actor_id", cmd.Actor.UserID,
		"new_status", cmd.NewStatus,
	)

	if cmd.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}
	if cmd.Actor.UserID == 0 {
		return nil, errors.NewValidationError("actor ID is required")
	}

	if err := requireManager(ctx, uc.checker, cmd.Actor, uc.logger); err != nil {
		uc.logger.Warnw("status transition refused", "issue_id", cmd.IssueID, "actor_id", cmd.Actor.UserID, "error", err)
		return nil, err
	}

	newStatus, err := vo.NewIssueStatus(cmd.NewStatus)
	if err != nil {
		return nil, errors.NewInvalidStatusError(err.Error())
	}
	if utf8.RuneCountInString(cmd.Comment) > constants.MaxStatusNoteLength {
		return nil, errors.NewValidationError(fmt.Sprintf("comment exceeds maximum length of %d characters", constants.MaxStatusNoteLength))
	}

	var (
		updated *issue.Issue
		entry   *issue.StatusHistory
		change  issue.StatusChange
	)

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		i, err := uc.issues.GetByIDForUpdate(txCtx, cmd.IssueID)
		if err != nil {
			return translateIssueErr(err, cmd.IssueID)
		}

		change, err = i.ChangeStatus(newStatus, uc.policy)
		if err != nil {
			if stderrors.Is(err, issue.ErrTransitionNotAllowed) {
				return errors.NewInvalidStatusError(err.Error())
			}
			return errors.NewValidationError(err.Error())
		}

		entry, err = issue.NewStatusHistory(i.ID(), cmd.Actor.UserID, change, cmd.Comment)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		if err := uc.issues.Update(txCtx, i); err != nil {
			return fmt.Errorf("failed to update issue: %w", err)
		}

		enqueue(txCtx, uc.notifier, uc.logger, uc.drafts(i, cmd.Actor.UserID, change, cmd.Comment)...)
		updated = i
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("status transition failed", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to change issue status")
	}

	nudge(uc.notifier)
	uc.metrics.RecordStatusTransition(change.Old.String(), change.New.String())
	uc.logger.Infow("issue status changed",
		"issue_id", updated.ID(),
		"old_status", change.Old,
		"new_status", change.New,
		"actor_id", cmd.Actor.UserID,
	)

	return &TransitionStatusResult{
		Issue:   dto.ToIssueDTO(updated, dto.Viewer{UserID: cmd.Actor.UserID, CanManage: true}, false),
		History: dto.ToStatusHistoryDTO(entry),
	}, nil
}

func (uc *TransitionStatusUseCase) drafts(i *issue.Issue, actorID uint, change issue.StatusChange, comment string) []notification.Draft {
	message := fmt.Sprintf("%q moved from %s to %s", i.Title(), statusLabel(change.Old), statusLabel(change.New))
	payload := map[string]any{
		"old_status": change.Old.String(),
		"new_status": change.New.String(),
	}
	if comment != "" {
		payload["comment"] = comment
	}

	recipients := i.Recipients(actorID)
	drafts := make([]notification.Draft, 0, len(recipients))
	for _, recipientID := range recipients {
		drafts = append(drafts, notification.Draft{
			RecipientID: recipientID,
			SenderID:    actorID,
			IssueID:     i.ID(),
			Type:        notifvo.NotificationTypeIssueUpdated,
			Message:     message,
			Payload:     payload,
		})
	}
	return drafts
}
