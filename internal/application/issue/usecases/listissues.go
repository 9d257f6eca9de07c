package usecases

import (
	"context"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type ListIssuesQuery struct {
	Viewer     authorization.Actor `json:"-"`
	Status     string              `json:"status" validate:"omitempty"`
	Priority   string              `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	CategoryID *uint               `json:"category_id"`
	LocationID *uint               `json:"location_id"`
	ReporterID *uint               `json:"reporter_id"`
	AssigneeID *uint               `json:"assignee_id"`
	Search     string              `json:"search" validate:"max=200"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	SortBy     string              `json:"sort_by" validate:"omitempty,oneof=created_at updated_at upvotes_count priority"`
	SortOrder  string              `json:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

type ListIssuesResult struct {
	Issues   []*dto.IssueDTO
	Total    int64
	Page     int
	PageSize int
}

type ListIssuesUseCase struct {
	issues  issue.IssueRepository
	upvotes issue.UpvoteRepository
	checker authorization.CapabilityChecker
	logger  logger.Interface
}

func NewListIssuesUseCase(
	issues issue.IssueRepository,
	upvotes issue.UpvoteRepository,
	checker authorization.CapabilityChecker,
	logger logger.Interface,
) *ListIssuesUseCase {
	return &ListIssuesUseCase{
		issues:  issues,
		upvotes: upvotes,
		checker: checker,
		logger:  logger,
	}
}

func (uc *ListIssuesUseCase) Execute(ctx context.Context, query ListIssuesQuery) (*ListIssuesResult, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := issue.IssueFilter{
		CategoryID: query.CategoryID,
		LocationID: query.LocationID,
		ReporterID: query.ReporterID,
		AssigneeID: query.AssigneeID,
		Search:     query.Search,
		Page:       p.Page,
		PageSize:   p.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}

	if query.Status != "" {
		status, err := vo.NewIssueStatus(query.Status)
		if err != nil {
			return nil, errors.NewInvalidStatusError(err.Error())
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &priority
	}

	manager := canManage(ctx, uc.checker, query.Viewer, uc.logger)

	// Filtering by reporter would reveal who filed anonymous issues.
	if filter.ReporterID != nil && !manager && *filter.ReporterID != query.Viewer.UserID {
		return nil, errors.NewForbiddenError("only managers can filter by another reporter")
	}

	list, total, err := uc.issues.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list issues", "error", err)
		return nil, errors.NewInternalError("failed to list issues")
	}

	upvoted := map[uint]bool{}
	if query.Viewer.UserID != 0 && len(list) > 0 {
		ids := make([]uint, len(list))
		for idx, i := range list {
			ids[idx] = i.ID()
		}
		upvoted, err = uc.upvotes.UpvotedIssueIDs(ctx, query.Viewer.UserID, ids)
		if err != nil {
			uc.logger.Errorw("failed to load upvote flags", "user_id", query.Viewer.UserID, "error", err)
			return nil, errors.NewInternalError("failed to list issues")
		}
	}

	viewer := dto.Viewer{UserID: query.Viewer.UserID, CanManage: manager}
	items := make([]*dto.IssueDTO, 0, len(list))
	for _, i := range list {
		items = append(items, dto.ToIssueDTO(i, viewer, upvoted[i.ID()]))
	}

	return &ListIssuesResult{
		Issues:   items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
