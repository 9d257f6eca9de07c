package http

import (
	issueUsecases "campusdesk/internal/application/issue/usecases"
	notificationUsecases "campusdesk/internal/application/notification/usecases"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/db"
	"campusdesk/internal/shared/services/markdown"
)

// allUseCases holds every use case the HTTP layer and the scheduler call into.
type allUseCases struct {
	createIssue   *issueUsecases.CreateIssueUseCase
	getIssue      *issueUsecases.GetIssueUseCase
	listIssues    *issueUsecases.ListIssuesUseCase
	transition    *issueUsecases.TransitionStatusUseCase
	history       *issueUsecases.ListStatusHistoryUseCase
	assignIssue   *issueUsecases.AssignIssueUseCase
	deleteIssue   *issueUsecases.DeleteIssueUseCase
	toggleUpvote  *issueUsecases.ToggleUpvoteUseCase
	postComment   *issueUsecases.PostCommentUseCase
	listComments  *issueUsecases.ListCommentsUseCase
	editComment   *issueUsecases.EditCommentUseCase
	deleteComment *issueUsecases.DeleteCommentUseCase
	reconcile     *issueUsecases.ReconcileCountersUseCase

	listNotifications *notificationUsecases.ListNotificationsUseCase
	markNotification  *notificationUsecases.MarkNotificationReadUseCase
}

// initUseCases wires the issue and notification use cases. It runs after the
// services section so the notifier, checker and recorder exist.
func (c *Container) initUseCases() error {
	policy, err := vo.NewTransitionPolicy(c.cfg.Issue.TransitionPolicy)
	if err != nil {
		return err
	}

	r := c.repos
	log := c.log
	txMgr := db.NewTransactionManager(c.db)
	md := markdown.NewMarkdownService()
	counters := issueUsecases.NewCounterKeeper(r.issueRepo, r.upvoteRepo, r.commentRepo)

	c.ucs = &allUseCases{
		createIssue: issueUsecases.NewCreateIssueUseCase(
			r.issueRepo, r.referenceRepo, md, c.recorder, log.Named("create_issue")),
		getIssue: issueUsecases.NewGetIssueUseCase(
			r.issueRepo, r.upvoteRepo, c.checker, log.Named("get_issue")),
		listIssues: issueUsecases.NewListIssuesUseCase(
			r.issueRepo, r.upvoteRepo, c.checker, log.Named("list_issues")),
		transition: issueUsecases.NewTransitionStatusUseCase(
			txMgr, r.issueRepo, r.statusHistoryRepo, policy, c.checker, c.notifier, c.recorder, log.Named("transition_status")),
		history: issueUsecases.NewListStatusHistoryUseCase(
			r.issueRepo, r.statusHistoryRepo, log.Named("status_history")),
		assignIssue: issueUsecases.NewAssignIssueUseCase(
			txMgr, r.issueRepo, c.checker, c.notifier, log.Named("assign_issue")),
		deleteIssue: issueUsecases.NewDeleteIssueUseCase(
			txMgr, r.issueRepo, r.upvoteRepo, r.commentRepo, r.statusHistoryRepo, r.notificationRepo, c.checker, log.Named("delete_issue")),
		toggleUpvote: issueUsecases.NewToggleUpvoteUseCase(
			txMgr, r.issueRepo, r.upvoteRepo, counters, c.notifier, c.recorder, log.Named("toggle_upvote")),
		postComment: issueUsecases.NewPostCommentUseCase(
			txMgr, r.issueRepo, r.commentRepo, counters, c.notifier, md, c.recorder, log.Named("post_comment")),
		listComments: issueUsecases.NewListCommentsUseCase(
			r.issueRepo, r.commentRepo, md, log.Named("list_comments")),
		editComment: issueUsecases.NewEditCommentUseCase(
			r.commentRepo, c.checker, md, log.Named("edit_comment")),
		deleteComment: issueUsecases.NewDeleteCommentUseCase(
			txMgr, r.issueRepo, r.commentRepo, counters, c.checker, c.recorder, log.Named("delete_comment")),
		reconcile: issueUsecases.NewReconcileCountersUseCase(
			txMgr, r.issueRepo, counters, c.recorder, log.Named("reconcile_counters")),

		listNotifications: notificationUsecases.NewListNotificationsUseCase(r.notificationRepo, log.Named("list_notifications")),
		markNotification:  notificationUsecases.NewMarkNotificationReadUseCase(r.notificationRepo, log.Named("mark_notification_read")),
	}
	return nil
}
