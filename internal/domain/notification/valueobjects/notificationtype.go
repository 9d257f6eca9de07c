package valueobjects

import "fmt"

type NotificationType string

const (
	NotificationTypeIssueCreated      NotificationType = "issue_created"
	NotificationTypeIssueUpdated      NotificationType = "issue_updated"
	NotificationTypeCommentAdded      NotificationType = "comment_added"
	NotificationTypeUpvoteReceived    NotificationType = "upvote_received"
	NotificationTypeAssignmentChanged NotificationType = "assignment_changed"
)

var validNotificationTypes = map[NotificationType]bool{
	NotificationTypeIssueCreated:      true,
	NotificationTypeIssueUpdated:      true,
	NotificationTypeCommentAdded:      true,
	NotificationTypeUpvoteReceived:    true,
	NotificationTypeAssignmentChanged: true,
}

func (nt NotificationType) String() string {
	return string(nt)
}

func (nt NotificationType) IsValid() bool {
	return validNotificationTypes[nt]
}

func NewNotificationType(s string) (NotificationType, error) {
	nt := NotificationType(s)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return nt, nil
}
