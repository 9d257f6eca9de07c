package middleware

import (
	"github.com/gin-gonic/gin"

	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

// RequireIssueManager lets the request through only when the caller may manage
// issues. It must run after RequireAuth.
func RequireIssueManager(checker authorization.CapabilityChecker, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authorization.ActorFromContext(c)
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			c.Abort()
			return
		}

		allowed, err := checker.CanManageIssues(c.Request.Context(), actor)
		if err != nil {
			log.Errorw("failed to check issue management capability", "user_id", actor.UserID, "error", err)
			utils.ErrorResponseWithError(c, errors.NewInternalError("failed to check permissions"))
			c.Abort()
			return
		}
		if !allowed {
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("issue management requires a staff role"))
			c.Abort()
			return
		}

		c.Next()
	}
}
