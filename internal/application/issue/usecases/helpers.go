package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
)

var titleCaser = cases.Title(language.English)

// statusLabel renders a status for people, e.g. "In Progress".
func statusLabel(s vo.IssueStatus) string {
	return titleCaser.String(s.Label())
}

func issueNotFound(id uint) error {
	return errors.NewNotFoundError(fmt.Sprintf("issue %d not found", id))
}

// translateIssueErr maps repository errors for an issue lookup onto application errors.
func translateIssueErr(err error, issueID uint) error {
	if stderrors.Is(err, issue.ErrIssueNotFound) {
		return issueNotFound(issueID)
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError("failed to load issue")
}

// requireManager fails with Forbidden unless actor holds the issue management capability.
func requireManager(ctx context.Context, checker authorization.CapabilityChecker, actor authorization.Actor, log logger.Interface) error {
	ok, err := checker.CanManageIssues(ctx, actor)
	if err != nil {
		log.Errorw("capability check failed", "actor_id", actor.UserID, "error", err)
		return errors.NewInternalError("failed to check permissions")
	}
	if !ok {
		return errors.NewForbiddenError("you are not allowed to manage issues")
	}
	return nil
}

// canManage is requireManager for read paths, where a failed check only narrows what is shown.
func canManage(ctx context.Context, checker authorization.CapabilityChecker, actor authorization.Actor, log logger.Interface) bool {
	if actor.UserID == 0 {
		return false
	}
	ok, err := checker.CanManageIssues(ctx, actor)
	if err != nil {
		log.Warnw("capability check failed, treating actor as non-manager", "actor_id", actor.UserID, "error", err)
		return false
	}
	return ok
}

// enqueue writes drafts to the outbox. A failure is logged and swallowed so the
// surrounding mutation still commits.
func enqueue(ctx context.Context, notifier Notifier, log logger.Interface, drafts ...notification.Draft) {
	if notifier == nil || len(drafts) == 0 {
		return
	}
	if _, err := notifier.Enqueue(ctx, drafts...); err != nil {
		log.Warnw("failed to enqueue notifications", "count", len(drafts), "error", err)
	}
}

func nudge(notifier Notifier) {
	if notifier != nil {
		notifier.Nudge()
	}
}
