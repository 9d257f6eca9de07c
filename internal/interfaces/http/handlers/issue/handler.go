package issue

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusdesk/internal/application/issue/usecases"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type IssueHandler struct {
	createIssueUC   usecases.CreateIssueExecutor
	getIssueUC      usecases.GetIssueExecutor
	listIssuesUC    usecases.ListIssuesExecutor
	transitionUC    usecases.TransitionStatusExecutor
	historyUC       usecases.ListStatusHistoryExecutor
	assignIssueUC   usecases.AssignIssueExecutor
	deleteIssueUC   usecases.DeleteIssueExecutor
	toggleUpvoteUC  usecases.ToggleUpvoteExecutor
	postCommentUC   usecases.PostCommentExecutor
	listCommentsUC  usecases.ListCommentsExecutor
	editCommentUC   usecases.EditCommentExecutor
	deleteCommentUC usecases.DeleteCommentExecutor
	reconcileUC     usecases.ReconcileCountersExecutor
	logger          logger.Interface
}

// Executors groups the use cases served by IssueHandler.
type Executors struct {
	CreateIssue   usecases.CreateIssueExecutor
	GetIssue      usecases.GetIssueExecutor
	ListIssues    usecases.ListIssuesExecutor
	Transition    usecases.TransitionStatusExecutor
	History       usecases.ListStatusHistoryExecutor
	AssignIssue   usecases.AssignIssueExecutor
	DeleteIssue   usecases.DeleteIssueExecutor
	ToggleUpvote  usecases.ToggleUpvoteExecutor
	PostComment   usecases.PostCommentExecutor
	ListComments  usecases.ListCommentsExecutor
	EditComment   usecases.EditCommentExecutor
	DeleteComment usecases.DeleteCommentExecutor
	Reconcile     usecases.ReconcileCountersExecutor
}

func NewIssueHandler(exec Executors, logger logger.Interface) *IssueHandler {
	return &IssueHandler{
		createIssueUC:   exec.CreateIssue,
		getIssueUC:      exec.GetIssue,
		listIssuesUC:    exec.ListIssues,
		transitionUC:    exec.Transition,
		historyUC:       exec.History,
		assignIssueUC:   exec.AssignIssue,
		deleteIssueUC:   exec.DeleteIssue,
		toggleUpvoteUC:  exec.ToggleUpvote,
		postCommentUC:   exec.PostComment,
		listCommentsUC:  exec.ListComments,
		editCommentUC:   exec.EditComment,
		deleteCommentUC: exec.DeleteComment,
		reconcileUC:     exec.Reconcile,
		logger:          logger,
	}
}

// CreateIssue handles POST /issues
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create issue", "error", err)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.createIssueUC.Execute(c.Request.Context(), req.ToCommand(actor.UserID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Issue reported successfully")
}

// GetIssue handles GET /issues/:id
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getIssueUC.Execute(c.Request.Context(), usecases.GetIssueQuery{
		IssueID: issueID,
		Viewer:  actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListIssues handles GET /issues
func (h *IssueHandler) ListIssues(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query, err := parseListIssuesQuery(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listIssuesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Issues, result.Total, result.Page, result.PageSize)
}

// TransitionStatus handles PATCH /issues/:id/status
func (h *IssueHandler) TransitionStatus(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for status transition", "issue_id", issueID, "error", err)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.transitionUC.Execute(c.Request.Context(), usecases.TransitionStatusCommand{
		IssueID:   issueID,
		Actor:     actor,
		NewStatus: req.Status,
		Comment:   req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Issue status updated successfully", result)
}

// ListStatusHistory handles GET /issues/:id/history
func (h *IssueHandler) ListStatusHistory(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.historyUC.Execute(c.Request.Context(), usecases.ListStatusHistoryQuery{IssueID: issueID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AssignIssue handles POST /issues/:id/assign
func (h *IssueHandler) AssignIssue(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assign issue", "issue_id", issueID, "error", err)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.assignIssueUC.Execute(c.Request.Context(), req.ToCommand(issueID, actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Issue assigned successfully", result)
}

// DeleteIssue handles DELETE /issues/:id
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteIssueUC.Execute(c.Request.Context(), usecases.DeleteIssueCommand{
		IssueID: issueID,
		Actor:   actor,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ToggleUpvote handles POST /issues/:id/upvote
func (h *IssueHandler) ToggleUpvote(c *gin.Context) {
	issueID, err := utils.ParseIDParam(c, "id", "issue")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actor, err := currentActor(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.toggleUpvoteUC.Execute(c.Request.Context(), usecases.ToggleUpvoteCommand{
		IssueID: issueID,
		UserID:  actor.UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ReconcileCounters handles POST /admin/issues/reconcile
func (h *IssueHandler) ReconcileCounters(c *gin.Context) {
	var req ReconcileCountersRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, bindError(err))
			return
		}
	}

	result, err := h.reconcileUC.Execute(c.Request.Context(), usecases.ReconcileCountersCommand{
		IssueID:     req.IssueID,
		OnlyDrifted: req.OnlyDrifted,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Counters reconciled", result)
}
