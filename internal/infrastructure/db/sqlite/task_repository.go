package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

const taskColumns = `id, title, description, status, remarks, due_date, priority, created_by, assigned_to, project_id, created_at, updated_at`

type TaskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, nullString(t.Description), string(t.Status), nullString(t.Remarks), nullTime(t.DueDate),
		t.Priority, t.CreatedBy, nullStringPtr(t.AssignedTo), nullStringPtr(t.ProjectID),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

// List returns tasks matching filter, newest first.
func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := taskWhere(filter)
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := taskWhere(filter)
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) UpdateProgress(ctx context.Context, id string, status domain.TaskStatus, remarks string, at time.Time) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, remarks = ?, updated_at = ? WHERE id = ?`,
		string(status), nullString(remarks), formatTime(at), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.FindByID(ctx, id)
}

func taskWhere(f ports.TaskFilter) (string, []any) {
	var clauses []string
	var args []any
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.AssignedTo != "" {
		clauses = append(clauses, "assigned_to = ?")
		args = append(args, f.AssignedTo)
	}
	if !f.CreatedBefore.IsZero() {
		clauses = append(clauses, "created_at < ?")
		args = append(args, formatTime(f.CreatedBefore))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var description, remarks, dueDate, assignedTo, projectID sql.NullString
	var status, createdAt, updatedAt string
	err := s.Scan(
		&t.ID, &t.Title, &description, &status, &remarks, &dueDate,
		&t.Priority, &t.CreatedBy, &assignedTo, &projectID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Remarks = remarks.String
	t.Status = domain.TaskStatus(status)
	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	if projectID.Valid {
		t.ProjectID = &projectID.String
	}
	if dueDate.Valid {
		due, err := parseTime(dueDate.String)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
