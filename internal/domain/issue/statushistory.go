package issue

import (
	"fmt"
	"time"

	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/biztime"
)

// StatusHistory is an immutable audit entry written once per transition.
type StatusHistory struct {
	id        uint
	issueID   uint
	actorID   uint
	oldStatus vo.IssueStatus
	newStatus vo.IssueStatus
	comment   string
	createdAt time.Time
}

func NewStatusHistory(issueID, actorID uint, change StatusChange, comment string) (*StatusHistory, error) {
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if actorID == 0 {
		return nil, fmt.Errorf("actor ID is required")
	}
	if !change.Old.IsValid() || !change.New.IsValid() {
		return nil, fmt.Errorf("invalid status change %s to %s", change.Old, change.New)
	}

	return &StatusHistory{
		issueID:   issueID,
		actorID:   actorID,
		oldStatus: change.Old,
		newStatus: change.New,
		comment:   comment,
		createdAt: biztime.NowUTC(),
	}, nil
}

func ReconstructStatusHistory(
	id uint,
	issueID uint,
	actorID uint,
	oldStatus, newStatus vo.IssueStatus,
	comment string,
	createdAt time.Time,
) *StatusHistory {
	return &StatusHistory{
		id:        id,
		issueID:   issueID,
		actorID:   actorID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		comment:   comment,
		createdAt: createdAt,
	}
}

func (h *StatusHistory) ID() uint                  { return h.id }
func (h *StatusHistory) IssueID() uint             { return h.issueID }
func (h *StatusHistory) ActorID() uint             { return h.actorID }
func (h *StatusHistory) OldStatus() vo.IssueStatus { return h.oldStatus }
func (h *StatusHistory) NewStatus() vo.IssueStatus { return h.newStatus }
func (h *StatusHistory) Comment() string           { return h.comment }
func (h *StatusHistory) CreatedAt() time.Time      { return h.createdAt }

func (h *StatusHistory) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("history ID cannot be zero")
	}
	h.id = id
	return nil
}
