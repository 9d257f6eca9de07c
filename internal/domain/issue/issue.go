package issue

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/biztime"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
)

type Issue struct {
	id                  uint
	title               string
	description         string
	reporterID          uint
	categoryID          uint
	locationID          uint
	priority            vo.Priority
	status              vo.IssueStatus
	assigneeID          *uint
	upvotesCount        int
	commentsCount       int
	isAnonymous         bool
	estimatedResolution *time.Duration
	createdAt           time.Time
	updatedAt           time.Time
	resolvedAt          *time.Time
}

// StatusChange is the outcome of a status transition.
type StatusChange struct {
	Old vo.IssueStatus
	New vo.IssueStatus
}

func NewIssue(
	title string,
	description string,
	reporterID uint,
	categoryID uint,
	locationID uint,
	priority vo.Priority,
	isAnonymous bool,
) (*Issue, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if len(strings.TrimSpace(description)) == 0 {
		return nil, fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if reporterID == 0 {
		return nil, fmt.Errorf("reporter ID is required")
	}
	if categoryID == 0 {
		return nil, fmt.Errorf("category is required")
	}
	if locationID == 0 {
		return nil, fmt.Errorf("location is required")
	}
	if priority == "" {
		priority = vo.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}

	now := biztime.NowUTC()
	return &Issue{
		title:       title,
		description: description,
		reporterID:  reporterID,
		categoryID:  categoryID,
		locationID:  locationID,
		priority:    priority,
		status:      vo.StatusReported,
		isAnonymous: isAnonymous,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructIssue(
	id uint,
	title string,
	description string,
	reporterID uint,
	categoryID uint,
	locationID uint,
	priority vo.Priority,
	status vo.IssueStatus,
	assigneeID *uint,
	upvotesCount int,
	commentsCount int,
	isAnonymous bool,
	estimatedResolution *time.Duration,
	createdAt, updatedAt time.Time,
	resolvedAt *time.Time,
) (*Issue, error) {
	if id == 0 {
		return nil, fmt.Errorf("issue ID cannot be zero")
	}
	if reporterID == 0 {
		return nil, fmt.Errorf("reporter ID is required")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if upvotesCount < 0 || commentsCount < 0 {
		return nil, fmt.Errorf("counters cannot be negative")
	}

	return &Issue{
		id:                  id,
		title:               title,
		description:         description,
		reporterID:          reporterID,
		categoryID:          categoryID,
		locationID:          locationID,
		priority:            priority,
		status:              status,
		assigneeID:          assigneeID,
		upvotesCount:        upvotesCount,
		commentsCount:       commentsCount,
		isAnonymous:         isAnonymous,
		estimatedResolution: estimatedResolution,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		resolvedAt:          resolvedAt,
	}, nil
}

func (i *Issue) ID() uint {
	return i.id
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) Description() string {
	return i.description
}

func (i *Issue) ReporterID() uint {
	return i.reporterID
}

func (i *Issue) CategoryID() uint {
	return i.categoryID
}

func (i *Issue) LocationID() uint {
	return i.locationID
}

func (i *Issue) Priority() vo.Priority {
	return i.priority
}

func (i *Issue) Status() vo.IssueStatus {
	return i.status
}

func (i *Issue) AssigneeID() *uint {
	return i.assigneeID
}

func (i *Issue) UpvotesCount() int {
	return i.upvotesCount
}

func (i *Issue) CommentsCount() int {
	return i.commentsCount
}

func (i *Issue) IsAnonymous() bool {
	return i.isAnonymous
}

func (i *Issue) EstimatedResolution() *time.Duration {
	return i.estimatedResolution
}

func (i *Issue) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Issue) UpdatedAt() time.Time {
	return i.updatedAt
}

func (i *Issue) ResolvedAt() *time.Time {
	return i.resolvedAt
}

func (i *Issue) SetID(id uint) error {
	if i.id != 0 {
		return fmt.Errorf("issue ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("issue ID cannot be zero")
	}
	i.id = id
	return nil
}

// ChangeStatus moves the issue to newStatus if policy allows it.
// resolvedAt is stamped on entry into resolved from any other status and is
// never cleared when the issue later leaves resolved.
func (i *Issue) ChangeStatus(newStatus vo.IssueStatus, policy vo.TransitionPolicy) (StatusChange, error) {
	if !newStatus.IsValid() {
		return StatusChange{}, fmt.Errorf("invalid status: %s", newStatus)
	}
	if policy == nil {
		policy = vo.PermissiveTransitions{}
	}
	if !policy.Allows(i.status, newStatus) {
		return StatusChange{}, fmt.Errorf("%w: %s to %s", ErrTransitionNotAllowed, i.status, newStatus)
	}

	change := StatusChange{Old: i.status, New: newStatus}
	now := biztime.NowUTC()

	if newStatus.IsResolved() && !i.status.IsResolved() {
		i.resolvedAt = &now
	}
	i.status = newStatus
	i.updatedAt = now

	return change, nil
}

// AssignTo sets the assignee and an optional resolution estimate.
func (i *Issue) AssignTo(assigneeID uint, estimate *time.Duration) error {
	if assigneeID == 0 {
		return fmt.Errorf("assignee ID cannot be zero")
	}
	if estimate != nil && *estimate <= 0 {
		return fmt.Errorf("estimated resolution must be positive")
	}

	i.assigneeID = &assigneeID
	if estimate != nil {
		i.estimatedResolution = estimate
	}
	i.updatedAt = biztime.NowUTC()
	return nil
}

// ReporterVisibleTo reports whether the reporter identity may be shown to viewerID.
// Anonymity only affects presentation; storage always keeps the reporter.
func (i *Issue) ReporterVisibleTo(viewerID uint, canManage bool) bool {
	if !i.isAnonymous {
		return true
	}
	return canManage || viewerID == i.reporterID
}

// Recipients returns the reporter and assignee, deduplicated, excluding actorID.
func (i *Issue) Recipients(actorID uint) []uint {
	out := make([]uint, 0, 2)
	if i.reporterID != actorID {
		out = append(out, i.reporterID)
	}
	if i.assigneeID != nil && *i.assigneeID != actorID && *i.assigneeID != i.reporterID {
		out = append(out, *i.assigneeID)
	}
	return out
}
