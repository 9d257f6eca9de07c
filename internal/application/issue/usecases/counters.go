package usecases

import (
	"context"
	"errors"
	"fmt"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/db"
)

// ErrNoTransaction is returned when a counter write is attempted outside a transaction.
var ErrNoTransaction = errors.New("counter update requires an open transaction")

// CounterKeeper is the only writer of an issue's upvotes_count and comments_count.
// Every write happens inside the transaction that changed the backing rows, as a
// single atomic SQL update floored at zero.
type CounterKeeper struct {
	issues   issue.IssueRepository
	upvotes  issue.UpvoteRepository
	comments issue.CommentRepository
	inTx     func(ctx context.Context) bool
}

func NewCounterKeeper(
	issues issue.IssueRepository,
	upvotes issue.UpvoteRepository,
	comments issue.CommentRepository,
) *CounterKeeper {
	return &CounterKeeper{
		issues:   issues,
		upvotes:  upvotes,
		comments: comments,
		inTx:     db.InTransaction,
	}
}

func (k *CounterKeeper) AddUpvotes(ctx context.Context, issueID uint, delta int) error {
	return k.add(ctx, issueID, delta, 0)
}

func (k *CounterKeeper) AddComments(ctx context.Context, issueID uint, delta int) error {
	return k.add(ctx, issueID, 0, delta)
}

func (k *CounterKeeper) add(ctx context.Context, issueID uint, upvotesDelta, commentsDelta int) error {
	if !k.inTx(ctx) {
		return ErrNoTransaction
	}
	if upvotesDelta == 0 && commentsDelta == 0 {
		return nil
	}
	return k.issues.AdjustCounters(ctx, issueID, upvotesDelta, commentsDelta)
}

// Reconcile recomputes both counters from their backing rows while holding the issue
// row lock, and writes them back only when they drifted. Running it twice in a row
// leaves the second report without drift.
func (k *CounterKeeper) Reconcile(ctx context.Context, issueID uint) (*dto.CounterReport, error) {
	if !k.inTx(ctx) {
		return nil, ErrNoTransaction
	}

	i, err := k.issues.GetByIDForUpdate(ctx, issueID)
	if err != nil {
		return nil, err
	}

	upvotes, err := k.upvotes.CountByIssue(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to count upvotes: %w", err)
	}
	comments, err := k.comments.CountByIssue(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	report := &dto.CounterReport{
		IssueID:        issueID,
		UpvotesBefore:  i.UpvotesCount(),
		UpvotesAfter:   int(upvotes),
		CommentsBefore: i.CommentsCount(),
		CommentsAfter:  int(comments),
	}
	report.Drifted = report.UpvotesBefore != report.UpvotesAfter || report.CommentsBefore != report.CommentsAfter

	if report.Drifted {
		if err := k.issues.SetCounters(ctx, issueID, report.UpvotesAfter, report.CommentsAfter); err != nil {
			return nil, err
		}
	}
	return report, nil
}
