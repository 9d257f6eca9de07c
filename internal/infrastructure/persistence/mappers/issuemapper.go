package mappers

import (
	"fmt"
	"time"

	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/infrastructure/persistence/models"
)

// IssueMapper handles the conversion between issue domain entities and persistence models.
type IssueMapper interface {
	ToModel(i *issue.Issue) *models.IssueModel
	ToDomain(model *models.IssueModel) (*issue.Issue, error)

	CommentToModel(c *issue.Comment) *models.CommentModel
	CommentToDomain(model *models.CommentModel) (*issue.Comment, error)

	HistoryToModel(h *issue.StatusHistory) *models.StatusHistoryModel
	HistoryToDomain(model *models.StatusHistoryModel) *issue.StatusHistory

	UpvoteToModel(u *issue.Upvote) *models.UpvoteModel
	UpvoteToDomain(model *models.UpvoteModel) *issue.Upvote
}

type IssueMapperImpl struct{}

func NewIssueMapper() IssueMapper {
	return &IssueMapperImpl{}
}

func (m *IssueMapperImpl) ToModel(i *issue.Issue) *models.IssueModel {
	model := &models.IssueModel{
		ID:            i.ID(),
		Title:         i.Title(),
		Description:   i.Description(),
		ReporterID:    i.ReporterID(),
		CategoryID:    i.CategoryID(),
		LocationID:    i.LocationID(),
		Priority:      i.Priority().String(),
		PriorityRank:  i.Priority().Rank(),
		Status:        i.Status().String(),
		AssigneeID:    i.AssigneeID(),
		UpvotesCount:  i.UpvotesCount(),
		CommentsCount: i.CommentsCount(),
		IsAnonymous:   i.IsAnonymous(),
		CreatedAt:     i.CreatedAt().UnixMilli(),
		UpdatedAt:     i.UpdatedAt().UnixMilli(),
		ResolvedAt:    timePtrToMillis(i.ResolvedAt()),
	}

	if est := i.EstimatedResolution(); est != nil {
		secs := int64(est.Seconds())
		model.EstimatedResolutionSeconds = &secs
	}

	return model
}

func (m *IssueMapperImpl) ToDomain(model *models.IssueModel) (*issue.Issue, error) {
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("issue %d: %w", model.ID, err)
	}
	status, err := vo.NewIssueStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("issue %d: %w", model.ID, err)
	}

	var estimate *time.Duration
	if model.EstimatedResolutionSeconds != nil {
		d := time.Duration(*model.EstimatedResolutionSeconds) * time.Second
		estimate = &d
	}

	return issue.ReconstructIssue(
		model.ID,
		model.Title,
		model.Description,
		model.ReporterID,
		model.CategoryID,
		model.LocationID,
		priority,
		status,
		model.AssigneeID,
		model.UpvotesCount,
		model.CommentsCount,
		model.IsAnonymous,
		estimate,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		millisPtrToTime(model.ResolvedAt),
	)
}

func (m *IssueMapperImpl) CommentToModel(c *issue.Comment) *models.CommentModel {
	return &models.CommentModel{
		ID:        c.ID(),
		IssueID:   c.IssueID(),
		AuthorID:  c.AuthorID(),
		ParentID:  c.ParentID(),
		Content:   c.Content(),
		IsEdited:  c.IsEdited(),
		CreatedAt: c.CreatedAt().UnixMilli(),
		UpdatedAt: c.UpdatedAt().UnixMilli(),
	}
}

func (m *IssueMapperImpl) CommentToDomain(model *models.CommentModel) (*issue.Comment, error) {
	return issue.ReconstructComment(
		model.ID,
		model.IssueID,
		model.AuthorID,
		model.ParentID,
		model.Content,
		model.IsEdited,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

func (m *IssueMapperImpl) HistoryToModel(h *issue.StatusHistory) *models.StatusHistoryModel {
	return &models.StatusHistoryModel{
		ID:        h.ID(),
		IssueID:   h.IssueID(),
		ActorID:   h.ActorID(),
		OldStatus: h.OldStatus().String(),
		NewStatus: h.NewStatus().String(),
		Comment:   h.Comment(),
		CreatedAt: h.CreatedAt().UnixMilli(),
	}
}

func (m *IssueMapperImpl) HistoryToDomain(model *models.StatusHistoryModel) *issue.StatusHistory {
	return issue.ReconstructStatusHistory(
		model.ID,
		model.IssueID,
		model.ActorID,
		vo.IssueStatus(model.OldStatus),
		vo.IssueStatus(model.NewStatus),
		model.Comment,
		millisToTime(model.CreatedAt),
	)
}

func (m *IssueMapperImpl) UpvoteToModel(u *issue.Upvote) *models.UpvoteModel {
	return &models.UpvoteModel{
		ID:        u.ID(),
		UserID:    u.UserID(),
		IssueID:   u.IssueID(),
		CreatedAt: u.CreatedAt().UnixMilli(),
	}
}

func (m *IssueMapperImpl) UpvoteToDomain(model *models.UpvoteModel) *issue.Upvote {
	return issue.ReconstructUpvote(model.ID, model.UserID, model.IssueID, millisToTime(model.CreatedAt))
}
