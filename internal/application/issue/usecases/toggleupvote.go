package usecases

import (
	"context"
	"fmt"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	notifvo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

type ToggleUpvoteCommand struct {
	IssueID uint
	UserID  uint
}

type ToggleUpvoteUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	upvotes  issue.UpvoteRepository
	counters *CounterKeeper
	notifier Notifier
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewToggleUpvoteUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	upvotes issue.UpvoteRepository,
	counters *CounterKeeper,
	notifier Notifier,
	metrics MetricsRecorder,
	logger logger.Interface,
) *ToggleUpvoteUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &ToggleUpvoteUseCase{
		txMgr:    txMgr,
		issues:   issues,
		upvotes:  upvotes,
		counters: counters,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute flips the caller's upvote. The issue row lock makes concurrent toggles by
// the same user observe each other's committed result, so at most one upvote row
// exists per pair and the counter matches the row count.
func (uc *ToggleUpvoteUseCase) Execute(ctx context.Context, cmd ToggleUpvoteCommand) (*dto.ToggleUpvoteDTO, error) {
	if cmd.IssueID == 0 {
		return nil, errors.NewValidationError("issue ID is required")
	}
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	var (
		state    issue.UpvoteState
		newCount int
	)

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		i, err := uc.issues.GetByIDForUpdate(txCtx, cmd.IssueID)
		if err != nil {
			return translateIssueErr(err, cmd.IssueID)
		}

		existing, err := uc.upvotes.Find(txCtx, cmd.IssueID, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to look up upvote: %w", err)
		}

		delta := 1
		if existing != nil {
			if err := uc.upvotes.Delete(txCtx, existing.ID()); err != nil {
				return fmt.Errorf("failed to remove upvote: %w", err)
			}
			delta = -1
			state = issue.UpvoteStateRemoved
		} else {
			u, err := issue.NewUpvote(cmd.UserID, cmd.IssueID)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := uc.upvotes.Create(txCtx, u); err != nil {
				return fmt.Errorf("failed to create upvote: %w", err)
			}
			state = issue.UpvoteStateUpvoted
		}

		if err := uc.counters.AddUpvotes(txCtx, cmd.IssueID, delta); err != nil {
			return fmt.Errorf("failed to adjust upvote counter: %w", err)
		}

		newCount = i.UpvotesCount() + delta
		if newCount < 0 {
			newCount = 0
		}

		if state == issue.UpvoteStateUpvoted {
			enqueue(txCtx, uc.notifier, uc.logger, notification.Draft{
				RecipientID: i.ReporterID(),
				SenderID:    cmd.UserID,
				IssueID:     i.ID(),
				Type:        notifvo.NotificationTypeUpvoteReceived,
				Message:     fmt.Sprintf("Someone upvoted %q", i.Title()),
				Payload:     map[string]any{"upvotes_count": newCount},
			})
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to toggle upvote", "issue_id", cmd.IssueID, "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to toggle upvote")
	}

	nudge(uc.notifier)
	uc.metrics.RecordUpvoteToggle(string(state))
	uc.logger.Infow("upvote toggled", "issue_id", cmd.IssueID, "user_id", cmd.UserID, "state", state, "upvotes_count", newCount)

	return &dto.ToggleUpvoteDTO{
		IssueID:  cmd.IssueID,
		State:    string(state),
		NewCount: newCount,
	}, nil
}
