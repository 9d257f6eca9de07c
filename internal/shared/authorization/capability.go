package authorization

import "context"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   UserRole
}

// CapabilityChecker answers whether an actor may manage issues
// (change status, assign, delete, moderate comments, reconcile counters).
type CapabilityChecker interface {
	CanManageIssues(ctx context.Context, actor Actor) (bool, error)
}

// RoleCapabilities grants the management capability to a fixed role set.
type RoleCapabilities struct {
	managers map[UserRole]struct{}
}

// DefaultManagerRoles are the roles allowed to manage issues out of the box.
func DefaultManagerRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleMaintenance, RoleTeachingStaff, RoleNonTeachingStaff}
}

// NewRoleCapabilities builds a checker for roles. With no roles the defaults apply.
func NewRoleCapabilities(roles ...UserRole) *RoleCapabilities {
	if len(roles) == 0 {
		roles = DefaultManagerRoles()
	}
	managers := make(map[UserRole]struct{}, len(roles))
	for _, r := range roles {
		managers[r] = struct{}{}
	}
	return &RoleCapabilities{managers: managers}
}

func (r *RoleCapabilities) CanManageIssues(_ context.Context, actor Actor) (bool, error) {
	_, ok := r.managers[actor.Role]
	return ok, nil
}
