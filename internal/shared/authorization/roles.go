package authorization

type UserRole string

const (
	RoleStudent          UserRole = "student"
	RoleTeachingStaff    UserRole = "teaching_staff"
	RoleNonTeachingStaff UserRole = "non_teaching_staff"
	RoleMaintenance      UserRole = "maintenance"
	RoleSecurity         UserRole = "security"
	RoleAdmin            UserRole = "admin"
)

var allRoles = []UserRole{
	RoleStudent,
	RoleTeachingStaff,
	RoleNonTeachingStaff,
	RoleMaintenance,
	RoleSecurity,
	RoleAdmin,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	for _, role := range allRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseUserRole falls back to the least privileged role for unknown input.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleStudent
}

// AllRoles returns every known role.
func AllRoles() []UserRole {
	out := make([]UserRole, len(allRoles))
	copy(out, allRoles)
	return out
}
