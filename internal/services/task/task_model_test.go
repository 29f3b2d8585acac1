package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	statuses := []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

	legal := map[[2]TaskStatus]bool{
		{StatusTodo, StatusInProgress}: true,
		{StatusTodo, StatusDone}:       true,
		{StatusInProgress, StatusDone}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := legal[[2]TaskStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "transition %s -> %s", from, to)
		}
	}
}

func TestDoneIsTerminal(t *testing.T) {
	assert.False(t, StatusDone.CanTransitionTo(StatusTodo))
	assert.False(t, StatusDone.CanTransitionTo(StatusInProgress))
	assert.False(t, StatusDone.CanTransitionTo(StatusDone))
}

func TestStatusAndPriorityValidation(t *testing.T) {
	assert.True(t, StatusTodo.Valid())
	assert.False(t, TaskStatus("BLOCKED").Valid())

	assert.True(t, PriorityHigh.Valid())
	assert.False(t, TaskPriority("URGENT").Valid())
}

func TestOwnershipPredicates(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()
	stranger := uuid.New()

	tk := &Task{CreatorID: creator, AssigneeID: &assignee}

	assert.True(t, tk.IsCreator(creator))
	assert.False(t, tk.IsCreator(assignee))

	assert.True(t, tk.IsAssignee(assignee))
	assert.False(t, tk.IsAssignee(creator))

	assert.True(t, tk.IsOwner(creator))
	assert.True(t, tk.IsOwner(assignee))
	assert.False(t, tk.IsOwner(stranger))

	unassigned := &Task{CreatorID: creator}
	assert.False(t, unassigned.IsAssignee(assignee))
	assert.True(t, unassigned.IsOwner(creator))
}
