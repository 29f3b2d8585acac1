package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// CanTransitionTo encodes the task status state machine. DONE is
// terminal and same-state changes are not transitions.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case StatusTodo:
		return next == StatusInProgress || next == StatusDone
	case StatusInProgress:
		return next == StatusDone
	default:
		return false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	AssigneeID  *uuid.UUID   `db:"assignee_id" json:"assignee_id,omitempty"`
	CreatorID   uuid.UUID    `db:"creator_id" json:"creator_id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

func (t *Task) IsCreator(userID uuid.UUID) bool {
	return t.CreatorID == userID
}

func (t *Task) IsAssignee(userID uuid.UUID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsOwner reports whether the user created the task or is assigned to it.
func (t *Task) IsOwner(userID uuid.UUID) bool {
	return t.IsCreator(userID) || t.IsAssignee(userID)
}

// UserSummary is the projection of a user embedded in task responses.
// Password hashes never leave the service.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// TaskView is a task with its creator and assignee resolved.
type TaskView struct {
	Task
	Creator  UserSummary  `json:"creator"`
	Assignee *UserSummary `json:"assignee,omitempty"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
}

// UpdateTaskRequest is a full field replace; an absent assignee clears
// the assignment.
type UpdateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
}

// ListFilter narrows a paged task listing. Nil fields are unconstrained.
type ListFilter struct {
	Status     *TaskStatus
	AssigneeID *uuid.UUID
	Limit      int
	Offset     int
}
