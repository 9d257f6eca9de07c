package dto

import (
	"time"

	"campusdesk/internal/domain/issue"
)

type IssueDTO struct {
	ID                         uint       `json:"id"`
	Title                      string     `json:"title"`
	Description                string     `json:"description"`
	ReporterID                 *uint      `json:"reporter_id"`
	CategoryID                 uint       `json:"category_id"`
	LocationID                 uint       `json:"location_id"`
	Priority                   string     `json:"priority"`
	Status                     string     `json:"status"`
	AssigneeID                 *uint      `json:"assignee_id"`
	UpvotesCount               int        `json:"upvotes_count"`
	CommentsCount              int        `json:"comments_count"`
	IsAnonymous                bool       `json:"is_anonymous"`
	IsUpvoted                  bool       `json:"is_upvoted"`
	EstimatedResolutionSeconds *int64     `json:"estimated_resolution_seconds,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
	ResolvedAt                 *time.Time `json:"resolved_at"`
}

// Viewer describes who is looking at an issue.
type Viewer struct {
	UserID    uint
	CanManage bool
}

// ToIssueDTO renders the issue for viewer. The reporter of an anonymous issue is
// only shown to the reporter and to managers.
func ToIssueDTO(i *issue.Issue, viewer Viewer, isUpvoted bool) *IssueDTO {
	if i == nil {
		return nil
	}

	out := &IssueDTO{
		ID:            i.ID(),
		Title:         i.Title(),
		Description:   i.Description(),
		CategoryID:    i.CategoryID(),
		LocationID:    i.LocationID(),
		Priority:      i.Priority().String(),
		Status:        i.Status().String(),
		AssigneeID:    i.AssigneeID(),
		UpvotesCount:  i.UpvotesCount(),
		CommentsCount: i.CommentsCount(),
		IsAnonymous:   i.IsAnonymous(),
		IsUpvoted:     isUpvoted,
		CreatedAt:     i.CreatedAt(),
		UpdatedAt:     i.UpdatedAt(),
		ResolvedAt:    i.ResolvedAt(),
	}

	if i.ReporterVisibleTo(viewer.UserID, viewer.CanManage) {
		reporterID := i.ReporterID()
		out.ReporterID = &reporterID
	}
	if est := i.EstimatedResolution(); est != nil {
		secs := int64(est.Seconds())
		out.EstimatedResolutionSeconds = &secs
	}
	return out
}

type StatusHistoryDTO struct {
	ID        uint      `json:"id"`
	IssueID   uint      `json:"issue_id"`
	ActorID   uint      `json:"actor_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToStatusHistoryDTO(h *issue.StatusHistory) *StatusHistoryDTO {
	if h == nil {
		return nil
	}
	return &StatusHistoryDTO{
		ID:        h.ID(),
		IssueID:   h.IssueID(),
		ActorID:   h.ActorID(),
		OldStatus: h.OldStatus().String(),
		NewStatus: h.NewStatus().String(),
		Comment:   h.Comment(),
		CreatedAt: h.CreatedAt(),
	}
}

func ToStatusHistoryDTOs(list []*issue.StatusHistory) []*StatusHistoryDTO {
	out := make([]*StatusHistoryDTO, 0, len(list))
	for _, h := range list {
		out = append(out, ToStatusHistoryDTO(h))
	}
	return out
}

// CounterReport describes one reconciliation of an issue's denormalized counters.
type CounterReport struct {
	IssueID        uint `json:"issue_id" yaml:"issue_id"`
	UpvotesBefore  int  `json:"upvotes_before" yaml:"upvotes_before"`
	UpvotesAfter   int  `json:"upvotes_after" yaml:"upvotes_after"`
	CommentsBefore int  `json:"comments_before" yaml:"comments_before"`
	CommentsAfter  int  `json:"comments_after" yaml:"comments_after"`
	Drifted        bool `json:"drifted" yaml:"drifted"`
}

type ToggleUpvoteDTO struct {
	IssueID  uint   `json:"issue_id"`
	State    string `json:"state"`
	NewCount int    `json:"new_count"`
}
