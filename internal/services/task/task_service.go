package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services/user"
)

const defaultPageSize = 20

// TaskStore is the persistence surface the task core needs.
type TaskStore interface {
	Create(ctx context.Context, t *Task) (*TaskView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TaskView, error)
	Update(ctx context.Context, t *Task) (*TaskView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]*TaskView, int, error)
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*TaskView, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*TaskView, error)
	ListByStatus(ctx context.Context, status TaskStatus) ([]*TaskView, error)
}

// UserGetter resolves assignees by id.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type TaskService struct {
	tasks TaskStore
	users UserGetter
}

func NewTaskService(tasks TaskStore, users UserGetter) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// Create persists a new task. The creator is always the acting user.
func (s *TaskService) Create(ctx context.Context, actor *user.User, req CreateTaskRequest) (*TaskView, error) {
	if !canCreate(actor) {
		return nil, forbidden("create tasks")
	}
	if err := validateFields(req.Title, req.Status, req.Priority); err != nil {
		return nil, err
	}

	assigneeID, err := s.resolveAssignee(ctx, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	view, err := s.tasks.Create(ctx, &Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  assigneeID,
		CreatorID:   actor.ID,
	})
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to create task", err)
	}
	return view, nil
}

func (s *TaskService) Get(ctx context.Context, actor *user.User, id uuid.UUID) (*TaskView, error) {
	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, &view.Task) {
		return nil, forbidden("read this task")
	}
	return view, nil
}

// Update is a full field replace. It deliberately skips transition
// validation: owners may force-set the status on this path. Only the
// dedicated status endpoint runs the state machine.
func (s *TaskService) Update(ctx context.Context, actor *user.User, id uuid.UUID, req UpdateTaskRequest) (*TaskView, error) {
	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canUpdate(actor, &view.Task) {
		return nil, forbidden("update this task")
	}
	if !view.Task.IsOwner(actor.ID) {
		return nil, perrors.NewErrForbidden("You can only update tasks you created or are assigned to", errors.New("not creator or assignee"))
	}
	if err := validateFields(req.Title, req.Status, req.Priority); err != nil {
		return nil, err
	}

	assigneeID, err := s.resolveAssignee(ctx, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	t := view.Task
	t.Title = strings.TrimSpace(req.Title)
	t.Description = req.Description
	t.Status = req.Status
	t.Priority = req.Priority
	t.AssigneeID = assigneeID

	updated, err := s.tasks.Update(ctx, &t)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to update task", err)
	}
	return updated, nil
}

// UpdateStatus moves the task along the status state machine.
func (s *TaskService) UpdateStatus(ctx context.Context, actor *user.User, id uuid.UUID, newStatus TaskStatus) (*TaskView, error) {
	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canUpdate(actor, &view.Task) {
		return nil, forbidden("update this task")
	}
	if !view.Task.IsOwner(actor.ID) {
		return nil, perrors.NewErrForbidden("You can only update status of tasks you created or are assigned to", errors.New("not creator or assignee"))
	}
	if !newStatus.Valid() {
		return nil, perrors.NewErrInvalidRequest("Unknown task status", fmt.Errorf("status %q", newStatus))
	}
	if !view.Task.Status.CanTransitionTo(newStatus) {
		return nil, perrors.NewErrInvalidRequest(
			fmt.Sprintf("Invalid status transition from %s to %s", view.Task.Status, newStatus),
			errors.New("invalid transition"),
		)
	}

	t := view.Task
	t.Status = newStatus

	updated, err := s.tasks.Update(ctx, &t)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to update task status", err)
	}
	return updated, nil
}

// Assign sets the task's assignee. Creator-exclusive.
func (s *TaskService) Assign(ctx context.Context, actor *user.User, id, assigneeID uuid.UUID) (*TaskView, error) {
	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAssign(actor, &view.Task) {
		return nil, perrors.NewErrForbidden("You can only assign tasks you created", errors.New("not creator"))
	}

	resolved, err := s.resolveAssignee(ctx, &assigneeID)
	if err != nil {
		return nil, err
	}

	t := view.Task
	t.AssigneeID = resolved

	updated, err := s.tasks.Update(ctx, &t)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to assign task", err)
	}
	return updated, nil
}

// Delete removes the task. Requires the all-scope delete capability;
// there is no ownership fallback.
func (s *TaskService) Delete(ctx context.Context, actor *user.User, id uuid.UUID) error {
	if !canDelete(actor) {
		return forbidden("delete tasks")
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return perrors.NewErrNotFound("Task not found", err)
		}
		return perrors.NewErrInternalServerError("Failed to delete task", err)
	}
	return nil
}

// List returns a page of tasks matching the filter.
func (s *TaskService) List(ctx context.Context, actor *user.User, filter ListFilter) ([]*TaskView, int, error) {
	if !canList(actor, filter.AssigneeID) {
		return nil, 0, forbidden("list these tasks")
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, perrors.NewErrInvalidRequest("Unknown task status", fmt.Errorf("status %q", *filter.Status))
	}
	if filter.AssigneeID != nil {
		if _, err := s.resolveAssignee(ctx, filter.AssigneeID); err != nil {
			return nil, 0, err
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, perrors.NewErrInternalServerError("Failed to list tasks", err)
	}
	return items, total, nil
}

// MyTasks lists tasks assigned to the acting user.
func (s *TaskService) MyTasks(ctx context.Context, actor *user.User) ([]*TaskView, error) {
	if !actor.HasPermission(user.TaskReadOwn) {
		return nil, forbidden("read own tasks")
	}

	items, err := s.tasks.ListByAssignee(ctx, actor.ID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to list tasks", err)
	}
	return items, nil
}

// CreatedByMe lists tasks the acting user created.
func (s *TaskService) CreatedByMe(ctx context.Context, actor *user.User) ([]*TaskView, error) {
	if !actor.HasPermission(user.TaskReadOwn) {
		return nil, forbidden("read own tasks")
	}

	items, err := s.tasks.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to list tasks", err)
	}
	return items, nil
}

// ByStatus lists every task in a status. All-scope readers only.
func (s *TaskService) ByStatus(ctx context.Context, actor *user.User, status TaskStatus) ([]*TaskView, error) {
	if !actor.HasPermission(user.TaskReadAll) {
		return nil, forbidden("read all tasks")
	}
	if !status.Valid() {
		return nil, perrors.NewErrInvalidRequest("Unknown task status", fmt.Errorf("status %q", status))
	}

	items, err := s.tasks.ListByStatus(ctx, status)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to list tasks", err)
	}
	return items, nil
}

func (s *TaskService) load(ctx context.Context, id uuid.UUID) (*TaskView, error) {
	view, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, perrors.NewErrNotFound("Task not found", err)
		}
		return nil, perrors.NewErrInternalServerError("Failed to get task", err)
	}
	return view, nil
}

// resolveAssignee validates the referenced user exists. A nil id clears
// the assignment.
func (s *TaskService) resolveAssignee(ctx context.Context, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil {
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, perrors.NewErrNotFound("Assignee not found", err, map[string]interface{}{"assignee_id": id.String()})
		}
		return nil, perrors.NewErrInternalServerError("Failed to resolve assignee", err)
	}
	return &u.ID, nil
}

func validateFields(title string, status TaskStatus, priority TaskPriority) error {
	if strings.TrimSpace(title) == "" {
		return perrors.NewErrInvalidRequest("Title is required", errors.New("empty title"))
	}
	if !status.Valid() {
		return perrors.NewErrInvalidRequest("Unknown task status", fmt.Errorf("status %q", status))
	}
	if !priority.Valid() {
		return perrors.NewErrInvalidRequest("Unknown task priority", fmt.Errorf("priority %q", priority))
	}
	return nil
}

func forbidden(what string) error {
	return perrors.NewErrForbidden("Not allowed to "+what, errors.New("permission denied"))
}
