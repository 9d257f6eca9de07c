package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/notification"
)

// TransactionRunner runs fn in one database transaction bound to the returned ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier writes notification drafts into the outbox of the current transaction.
type Notifier interface {
	Enqueue(ctx context.Context, drafts ...notification.Draft) (int, error)
	Nudge()
}

// MetricsRecorder observes issue activity.
type MetricsRecorder interface {
	RecordIssueCreated(priority string)
	RecordStatusTransition(from, to string)
	RecordUpvoteToggle(state string)
	RecordCommentPosted(isReply bool)
	RecordCommentsDeleted(count int)
	RecordCounterDrift(counter string)
}

type nopMetrics struct{}

func (nopMetrics) RecordIssueCreated(string)             {}
func (nopMetrics) RecordStatusTransition(string, string) {}
func (nopMetrics) RecordUpvoteToggle(string)             {}
func (nopMetrics) RecordCommentPosted(bool)              {}
func (nopMetrics) RecordCommentsDeleted(int)             {}
func (nopMetrics) RecordCounterDrift(string)             {}

// NopMetrics returns a recorder that drops every observation.
func NopMetrics() MetricsRecorder { return nopMetrics{} }

type CreateIssueExecutor interface {
	Execute(ctx context.Context, cmd CreateIssueCommand) (*dto.IssueDTO, error)
}

type GetIssueExecutor interface {
	Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error)
}

type ListIssuesExecutor interface {
	Execute(ctx context.Context, query ListIssuesQuery) (*ListIssuesResult, error)
}

type TransitionStatusExecutor interface {
	Execute(ctx context.Context, cmd TransitionStatusCommand) (*TransitionStatusResult, error)
}

type ListStatusHistoryExecutor interface {
	Execute(ctx context.Context, query ListStatusHistoryQuery) ([]*dto.StatusHistoryDTO, error)
}

type AssignIssueExecutor interface {
	Execute(ctx context.Context, cmd AssignIssueCommand) (*dto.IssueDTO, error)
}

type DeleteIssueExecutor interface {
	Execute(ctx context.Context, cmd DeleteIssueCommand) error
}

type ToggleUpvoteExecutor interface {
	Execute(ctx context.Context, cmd ToggleUpvoteCommand) (*dto.ToggleUpvoteDTO, error)
}

type PostCommentExecutor interface {
	Execute(ctx context.Context, cmd PostCommentCommand) (*dto.CommentDTO, error)
}

type ListCommentsExecutor interface {
	Execute(ctx context.Context, query ListCommentsQuery) ([]*dto.CommentDTO, error)
}

type EditCommentExecutor interface {
	Execute(ctx context.Context, cmd EditCommentCommand) (*dto.CommentDTO, error)
}

type DeleteCommentExecutor interface {
	Execute(ctx context.Context, cmd DeleteCommentCommand) (*DeleteCommentResult, error)
}

type ReconcileCountersExecutor interface {
	Execute(ctx context.Context, cmd ReconcileCountersCommand) (*ReconcileCountersResult, error)
}
