package authorization

import (
	"github.com/gin-gonic/gin"
)

// Context keys written by the authentication middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// ActorFromContext returns the authenticated actor stored on the gin context.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	userID, ok := c.Get(ContextKeyUserID)
	if !ok {
		return Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return Actor{}, false
	}
	return Actor{UserID: id, Role: ParseUserRole(c.GetString(ContextKeyUserRole))}, true
}

// CanModify reports whether actor may change a resource owned by ownerID.
func CanModify(actor Actor, ownerID uint, canManage bool) bool {
	return canManage || actor.UserID == ownerID
}
