package models

// All lists every model managed by this service, in creation order.
func All() []any {
	return []any{
		&CategoryModel{},
		&LocationModel{},
		&IssueModel{},
		&UpvoteModel{},
		&CommentModel{},
		&StatusHistoryModel{},
		&NotificationModel{},
	}
}
