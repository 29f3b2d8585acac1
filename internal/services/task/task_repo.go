package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrTaskNotFound = errors.New("task not found")

const taskColumns = `
	t.id, t.title, t.description, t.status, t.priority,
	t.assignee_id, t.creator_id, t.created_at, t.updated_at,
	c.username AS creator_username, c.email AS creator_email,
	a.username AS assignee_username, a.email AS assignee_email
`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.creator_id
	LEFT JOIN users a ON a.id = t.assignee_id
`

// taskRow is a task joined with its creator and assignee user rows.
type taskRow struct {
	Task
	CreatorUsername  string         `db:"creator_username"`
	CreatorEmail     string         `db:"creator_email"`
	AssigneeUsername sql.NullString `db:"assignee_username"`
	AssigneeEmail    sql.NullString `db:"assignee_email"`
}

func (r *taskRow) view() *TaskView {
	v := &TaskView{
		Task: r.Task,
		Creator: UserSummary{
			ID:       r.CreatorID,
			Username: r.CreatorUsername,
			Email:    r.CreatorEmail,
		},
	}
	if r.AssigneeID != nil {
		v.Assignee = &UserSummary{
			ID:       *r.AssigneeID,
			Username: r.AssigneeUsername.String,
			Email:    r.AssigneeEmail.String,
		}
	}
	return v
}

func views(rows []*taskRow) []*TaskView {
	out := make([]*TaskView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out
}

// TaskRepo handles database operations for tasks
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, t *Task) (*TaskView, error) {
	query := `
		INSERT INTO tasks (title, description, status, priority, assignee_id, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.GetContext(ctx, &id, query, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*TaskView, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.id = $1`

	var row taskRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return row.view(), nil
}

// Update replaces every mutable field of the task.
func (r *TaskRepo) Update(ctx context.Context, t *Task) (*TaskView, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, assignee_id = $5, updated_at = NOW()
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.GetByID(ctx, t.ID)
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// List returns a page of tasks matching the filter plus the total count.
func (r *TaskRepo) List(ctx context.Context, filter ListFilter) ([]*TaskView, int, error) {
	where := ""
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		where += fmt.Sprintf(" AND t.assignee_id = $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM tasks t WHERE true` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT %s %s WHERE true %s ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, taskJoins, where, limitPos, offsetPos)

	var rows []*taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return views(rows), total, nil
}

func (r *TaskRepo) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*TaskView, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.assignee_id = $1 ORDER BY t.created_at DESC`

	var rows []*taskRow
	if err := r.db.SelectContext(ctx, &rows, query, assigneeID); err != nil {
		return nil, fmt.Errorf("failed to list tasks by assignee: %w", err)
	}
	return views(rows), nil
}

func (r *TaskRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*TaskView, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.creator_id = $1 ORDER BY t.created_at DESC`

	var rows []*taskRow
	if err := r.db.SelectContext(ctx, &rows, query, creatorID); err != nil {
		return nil, fmt.Errorf("failed to list tasks by creator: %w", err)
	}
	return views(rows), nil
}

func (r *TaskRepo) ListByStatus(ctx context.Context, status TaskStatus) ([]*TaskView, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.status = $1 ORDER BY t.created_at DESC`

	var rows []*taskRow
	if err := r.db.SelectContext(ctx, &rows, query, status); err != nil {
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	return views(rows), nil
}
