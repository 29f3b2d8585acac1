package task

import (
	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/services/user"
)

// Authorization decision rule: an operation is allowed when the actor
// holds the all-scope permission, or holds the own-scope variant and the
// operation's ownership predicate holds.

func canCreate(actor *user.User) bool {
	return actor.HasPermission(user.TaskCreate) || actor.HasPermission(user.TaskCreateAll)
}

// canRead guards single-task reads. The own-scope predicate is assignee
// only; creators without an assignment go through list-by-creator.
func canRead(actor *user.User, t *Task) bool {
	if actor.HasPermission(user.TaskReadAll) {
		return true
	}
	return actor.HasPermission(user.TaskReadOwn) && t.IsAssignee(actor.ID)
}

// canUpdate guards both full updates and status updates. The own-scope
// predicate is creator or assignee.
func canUpdate(actor *user.User, t *Task) bool {
	if actor.HasPermission(user.TaskUpdateAll) {
		return true
	}
	return actor.HasPermission(user.TaskUpdateOwn) && t.IsOwner(actor.ID)
}

// canAssign is creator-exclusive on top of the assign capability.
func canAssign(actor *user.User, t *Task) bool {
	return actor.HasPermission(user.TaskAssign) && t.IsCreator(actor.ID)
}

// canDelete has no ownership fallback.
func canDelete(actor *user.User) bool {
	return actor.HasPermission(user.TaskDeleteAll)
}

// canList guards the paged listing: all-scope readers see everything,
// own-scope readers may only query their own assignments.
func canList(actor *user.User, assigneeID *uuid.UUID) bool {
	if actor.HasPermission(user.TaskReadAll) {
		return true
	}
	return actor.HasPermission(user.TaskReadOwn) && assigneeID != nil && *assigneeID == actor.ID
}
