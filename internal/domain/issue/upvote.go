package issue

import (
	"fmt"
	"time"

	"campusdesk/internal/shared/biztime"
)

// Upvote is the "on" state of a (user, issue) toggle. Removing the row is the "off" state.
type Upvote struct {
	id        uint
	userID    uint
	issueID   uint
	createdAt time.Time
}

// UpvoteState is the outcome of a toggle.
type UpvoteState string

const (
	UpvoteStateUpvoted UpvoteState = "upvoted"
	UpvoteStateRemoved UpvoteState = "removed"
)

func NewUpvote(userID, issueID uint) (*Upvote, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	return &Upvote{
		userID:    userID,
		issueID:   issueID,
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructUpvote(id, userID, issueID uint, createdAt time.Time) *Upvote {
	return &Upvote{id: id, userID: userID, issueID: issueID, createdAt: createdAt}
}

func (u *Upvote) ID() uint             { return u.id }
func (u *Upvote) UserID() uint         { return u.userID }
func (u *Upvote) IssueID() uint        { return u.issueID }
func (u *Upvote) CreatedAt() time.Time { return u.createdAt }

func (u *Upvote) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("upvote ID is already set")
	}
	u.id = id
	return nil
}
