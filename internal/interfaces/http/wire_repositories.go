package http

import (
	"gorm.io/gorm"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/domain/notification"
	"campusdesk/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	issueRepo         issue.IssueRepository
	upvoteRepo        issue.UpvoteRepository
	commentRepo       issue.CommentRepository
	statusHistoryRepo issue.StatusHistoryRepository
	referenceRepo     issue.ReferenceRepository
	notificationRepo  notification.NotificationRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		issueRepo:         repository.NewIssueRepository(db),
		upvoteRepo:        repository.NewUpvoteRepository(db),
		commentRepo:       repository.NewCommentRepository(db),
		statusHistoryRepo: repository.NewStatusHistoryRepository(db),
		referenceRepo:     repository.NewReferenceRepository(db),
		notificationRepo:  repository.NewNotificationRepository(db),
	}
}
