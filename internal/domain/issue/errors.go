package issue

import "errors"

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrInvalidParent        = errors.New("parent comment must belong to the same issue")
)
