package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissionSets(t *testing.T) {
	assert.ElementsMatch(t, []Permission{
		TaskReadOwn,
		TaskUpdateOwn,
		TaskCreate,
		UserReadAll,
	}, RoleUser.Permissions())

	assert.ElementsMatch(t, []Permission{
		TaskReadAll,
		TaskUpdateAll,
		TaskDeleteAll,
		TaskCreateAll,
		TaskAssign,
		UserReadAll,
	}, RoleAdmin.Permissions())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, RoleUser.HasPermission(TaskCreate))
	assert.True(t, RoleUser.HasPermission(TaskReadOwn))
	assert.False(t, RoleUser.HasPermission(TaskReadAll))
	assert.False(t, RoleUser.HasPermission(TaskDeleteAll))
	assert.False(t, RoleUser.HasPermission(TaskAssign))

	assert.True(t, RoleAdmin.HasPermission(TaskDeleteAll))
	assert.True(t, RoleAdmin.HasPermission(TaskAssign))
	assert.False(t, RoleAdmin.HasPermission(TaskUpdateOwn), "admin uses the all-scope variant")
}

func TestUserHasPermissionNilReceiver(t *testing.T) {
	var u *User
	assert.False(t, u.HasPermission(TaskCreate))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, UserRole("ROOT").Valid())
	assert.False(t, UserRole("").Valid())
}
