package user

// Permission is an opaque capability tag checked at authorization time.
// The "own" variants only grant access when the requester owns the
// resource; the "all" variants are unconditional.
type Permission string

const (
	// Admin permissions - full CRUD over all tasks, plus assignment
	TaskReadAll   Permission = "task:read:all"
	TaskUpdateAll Permission = "task:update:all"
	TaskCreateAll Permission = "task:create:all"
	TaskDeleteAll Permission = "task:delete:all"
	TaskAssign    Permission = "task:assign"

	// User permissions - limited to own tasks
	TaskReadOwn   Permission = "task:read:own"
	TaskUpdateOwn Permission = "task:update:own"
	TaskCreate    Permission = "task:create"

	// User management
	UserReadAll Permission = "user:read:all"
)

// rolePermissions is the static role to permission-set mapping. Roles
// never gain or lose permissions at runtime.
var rolePermissions = map[UserRole][]Permission{
	RoleUser: {
		TaskReadOwn,
		TaskUpdateOwn,
		TaskCreate,
		UserReadAll,
	},
	RoleAdmin: {
		TaskReadAll,
		TaskUpdateAll,
		TaskDeleteAll,
		TaskCreateAll,
		TaskAssign,
		UserReadAll,
	},
}

// Permissions returns the capability set attached to the role.
func (r UserRole) Permissions() []Permission {
	return rolePermissions[r]
}

// HasPermission reports whether the role holds the given capability.
func (r UserRole) HasPermission(p Permission) bool {
	for _, held := range rolePermissions[r] {
		if held == p {
			return true
		}
	}
	return false
}

func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	return u.Role.HasPermission(p)
}
