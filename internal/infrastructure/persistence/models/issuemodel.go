package models

type IssueModel struct {
	ID                         uint   `gorm:"primaryKey"`
	Title                      string `gorm:"size:200;not null"`
	Description                string `gorm:"type:text;not null"`
	ReporterID                 uint   `gorm:"not null;index"`
	CategoryID                 uint   `gorm:"not null;index"`
	LocationID                 uint   `gorm:"not null;index"`
	Priority                   string `gorm:"size:20;not null;index"`
	PriorityRank               int    `gorm:"not null;default:2"`
	Status                     string `gorm:"size:20;not null;index"`
	AssigneeID                 *uint  `gorm:"index"`
	UpvotesCount               int    `gorm:"not null;default:0;index"`
	CommentsCount              int    `gorm:"not null;default:0"`
	IsAnonymous                bool   `gorm:"not null;default:false"`
	EstimatedResolutionSeconds *int64
	CreatedAt                  int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt                  int64 `gorm:"autoUpdateTime:milli;not null"`
	ResolvedAt                 *int64

	// Note: No foreign key constraints or associations.
	// Cascades are performed by the application inside one transaction.
}

func (IssueModel) TableName() string {
	return "issues"
}

type UpvoteModel struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"not null;uniqueIndex:idx_issue_upvotes_user_issue"`
	IssueID   uint  `gorm:"not null;uniqueIndex:idx_issue_upvotes_user_issue;index"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null"`
}

func (UpvoteModel) TableName() string {
	return "issue_upvotes"
}

type CommentModel struct {
	ID        uint   `gorm:"primaryKey"`
	IssueID   uint   `gorm:"not null;index:idx_issue_comments_issue_created,priority:1"`
	AuthorID  uint   `gorm:"not null;index"`
	ParentID  *uint  `gorm:"index"`
	Content   string `gorm:"type:text;not null"`
	IsEdited  bool   `gorm:"not null;default:false"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index:idx_issue_comments_issue_created,priority:2"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (CommentModel) TableName() string {
	return "issue_comments"
}

type StatusHistoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	IssueID   uint   `gorm:"not null;index"`
	ActorID   uint   `gorm:"not null"`
	OldStatus string `gorm:"size:20;not null"`
	NewStatus string `gorm:"size:20;not null"`
	Comment   string `gorm:"type:text"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (StatusHistoryModel) TableName() string {
	return "issue_status_histories"
}
