package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyRequestID = "request_id"

	// Database table names
	TableIssues             = "issues"
	TableIssueUpvotes       = "issue_upvotes"
	TableIssueComments      = "issue_comments"
	TableIssueStatusHistory = "issue_status_histories"
	TableNotifications      = "notifications"
	TableCategories         = "categories"
	TableLocations          = "locations"

	// Content limits
	MaxIssueTitleLength = 200
	MaxCommentLength    = 5000
	MaxStatusNoteLength = 1000

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
