package issue

import (
	"time"

	"github.com/gin-gonic/gin"

	"campusdesk/internal/application/issue/usecases"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/utils"
)

type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=10000"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	LocationID  uint   `json:"location_id" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (r *CreateIssueRequest) ToCommand(reporterID uint) usecases.CreateIssueCommand {
	return usecases.CreateIssueCommand{
		ReporterID:  reporterID,
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		LocationID:  r.LocationID,
		Priority:    r.Priority,
		IsAnonymous: r.IsAnonymous,
	}
}

type TransitionStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

type AssignIssueRequest struct {
	AssigneeID                 uint   `json:"assignee_id" binding:"required"`
	EstimatedResolutionSeconds *int64 `json:"estimated_resolution_seconds" binding:"omitempty,gt=0"`
}

func (r *AssignIssueRequest) ToCommand(issueID uint, actor authorization.Actor) usecases.AssignIssueCommand {
	cmd := usecases.AssignIssueCommand{
		IssueID:    issueID,
		Actor:      actor,
		AssigneeID: r.AssigneeID,
	}
	if r.EstimatedResolutionSeconds != nil {
		d := time.Duration(*r.EstimatedResolutionSeconds) * time.Second
		cmd.EstimatedResolution = &d
	}
	return cmd
}

type PostCommentRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ParentID *uint  `json:"parent_id"`
}

type EditCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type ReconcileCountersRequest struct {
	IssueID     *uint `json:"issue_id"`
	OnlyDrifted bool  `json:"only_drifted"`
}

func parseListIssuesQuery(c *gin.Context, viewer authorization.Actor) (usecases.ListIssuesQuery, error) {
	query := usecases.ListIssuesQuery{
		Viewer:    viewer,
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	p := utils.ParsePagination(c)
	query.Page = p.Page
	query.PageSize = p.PageSize

	var err error
	if query.CategoryID, err = utils.ParseOptionalUintQuery(c, "category_id"); err != nil {
		return query, err
	}
	if query.LocationID, err = utils.ParseOptionalUintQuery(c, "location_id"); err != nil {
		return query, err
	}
	if query.ReporterID, err = utils.ParseOptionalUintQuery(c, "reporter_id"); err != nil {
		return query, err
	}
	if query.AssigneeID, err = utils.ParseOptionalUintQuery(c, "assignee_id"); err != nil {
		return query, err
	}
	return query, nil
}

func currentActor(c *gin.Context) (authorization.Actor, error) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		return authorization.Actor{}, errors.NewUnauthorizedError("user not authenticated")
	}
	return actor, nil
}

func bindError(err error) error {
	return errors.NewValidationError("invalid request body", err.Error())
}
