package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

const reconcileBatchSize = 200

type ReconcileCountersCommand struct {
	// IssueID limits the run to one issue; nil walks every issue.
	IssueID *uint
	// OnlyDrifted drops reports for issues whose counters were already right.
	OnlyDrifted bool
}

type ReconcileCountersResult struct {
	Checked int                  `json:"checked" yaml:"checked"`
	Drifted int                  `json:"drifted" yaml:"drifted"`
	Reports []*dto.CounterReport `json:"reports" yaml:"reports"`
}

type ReconcileCountersUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	counters *CounterKeeper
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewReconcileCountersUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	counters *CounterKeeper,
	metrics MetricsRecorder,
	logger logger.Interface,
) *ReconcileCountersUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &ReconcileCountersUseCase{
		txMgr:    txMgr,
		issues:   issues,
		counters: counters,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute recomputes denormalized counters from their backing rows. Each issue is
// repaired in its own transaction, so a long run never holds more than one row lock.
func (uc *ReconcileCountersUseCase) Execute(ctx context.Context, cmd ReconcileCountersCommand) (*ReconcileCountersResult, error) {
	result := &ReconcileCountersResult{Reports: []*dto.CounterReport{}}

	if cmd.IssueID != nil {
		if *cmd.IssueID == 0 {
			return nil, errors.NewValidationError("issue ID is required")
		}
		if err := uc.reconcileOne(ctx, *cmd.IssueID, cmd.OnlyDrifted, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	uc.logger.Infow("reconciling counters for all issues")
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ids, err := uc.issues.ListIDs(ctx, afterID, reconcileBatchSize)
		if err != nil {
			uc.logger.Errorw("failed to list issue ids", "after_id", afterID, "error", err)
			return result, errors.NewInternalError("failed to list issues")
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if err := uc.reconcileOne(ctx, id, cmd.OnlyDrifted, result); err != nil {
				// Deleted between listing and locking.
				if errors.IsNotFoundError(err) {
					continue
				}
				return result, err
			}
		}
		afterID = ids[len(ids)-1]
	}

	uc.logger.Infow("counter reconciliation finished", "checked", result.Checked, "drifted", result.Drifted)
	return result, nil
}

func (uc *ReconcileCountersUseCase) reconcileOne(ctx context.Context, issueID uint, onlyDrifted bool, result *ReconcileCountersResult) error {
	var report *dto.CounterReport
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		report, err = uc.counters.Reconcile(txCtx, issueID)
		return err
	})
	if err != nil {
		if appErr := translateIssueErr(err, issueID); errors.IsNotFoundError(appErr) {
			return appErr
		}
		uc.logger.Errorw("failed to reconcile counters", "issue_id", issueID, "error", err)
		return errors.NewInternalError("failed to reconcile counters")
	}

	result.Checked++
	if report.Drifted {
		result.Drifted++
		if report.UpvotesBefore != report.UpvotesAfter {
			uc.metrics.RecordCounterDrift("upvotes")
		}
		if report.CommentsBefore != report.CommentsAfter {
			uc.metrics.RecordCounterDrift("comments")
		}
		uc.logger.Warnw("counter drift repaired",
			"issue_id", issueID,
			"upvotes_before", report.UpvotesBefore,
			"upvotes_after", report.UpvotesAfter,
			"comments_before", report.CommentsBefore,
			"comments_after", report.CommentsAfter,
		)
	}
	if report.Drifted || !onlyDrifted {
		result.Reports = append(result.Reports, report)
	}
	return nil
}
