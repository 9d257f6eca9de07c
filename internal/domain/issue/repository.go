package issue

import (
	"context"

	vo "campusdesk/internal/domain/issue/valueobjects"
)

// IssueRepository persists the aggregate. Counters are never written through Update;
// they change only through AdjustCounters and SetCounters.
type IssueRepository interface {
	Create(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, id uint) (*Issue, error)
	// GetByIDForUpdate locks the issue row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*Issue, error)
	Update(ctx context.Context, issue *Issue) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter IssueFilter) ([]*Issue, int64, error)
	// ListIDs pages through issue ids greater than afterID in ascending order.
	ListIDs(ctx context.Context, afterID uint, limit int) ([]uint, error)
	// AdjustCounters adds the deltas atomically, flooring each counter at zero.
	AdjustCounters(ctx context.Context, issueID uint, upvotesDelta, commentsDelta int) error
	SetCounters(ctx context.Context, issueID uint, upvotes, comments int) error
}

type IssueFilter struct {
	Status     *vo.IssueStatus
	Priority   *vo.Priority
	CategoryID *uint
	LocationID *uint
	ReporterID *uint
	AssigneeID *uint
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type UpvoteRepository interface {
	// Find returns nil without error when the pair has no upvote.
	Find(ctx context.Context, issueID, userID uint) (*Upvote, error)
	Create(ctx context.Context, upvote *Upvote) error
	Delete(ctx context.Context, id uint) error
	CountByIssue(ctx context.Context, issueID uint) (int64, error)
	// UpvotedIssueIDs returns which of issueIDs userID has upvoted.
	UpvotedIssueIDs(ctx context.Context, userID uint, issueIDs []uint) (map[uint]bool, error)
	DeleteByIssue(ctx context.Context, issueID uint) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uint) (*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	// ListByIssue returns every comment of the issue ordered by (created_at, id).
	ListByIssue(ctx context.Context, issueID uint) ([]*Comment, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
	CountByIssue(ctx context.Context, issueID uint) (int64, error)
	DeleteByIssue(ctx context.Context, issueID uint) error
}

// StatusHistoryRepository is append-only; rows go away only with their issue.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *StatusHistory) error
	ListByIssue(ctx context.Context, issueID uint) ([]*StatusHistory, error)
	CountByIssue(ctx context.Context, issueID uint) (int64, error)
	DeleteByIssue(ctx context.Context, issueID uint) error
}

// ReferenceRepository answers existence questions about category and location reference data.
type ReferenceRepository interface {
	CategoryExists(ctx context.Context, id uint) (bool, error)
	LocationExists(ctx context.Context, id uint) (bool, error)
}
