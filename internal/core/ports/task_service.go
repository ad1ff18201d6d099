package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// CreateTaskInput carries the admin create-task form.
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   string // empty = no project
	AssignedTo  string // empty = unassigned
	DueDate     *time.Time
	Priority    string
}

// UpdateTaskInput carries an employee progress update.
type UpdateTaskInput struct {
	ID      string
	Status  string
	Remarks string
}

// ListTasksInput filters the task list. Employees are always scoped to
// their own assignments by the service.
type ListTasksInput struct {
	Status string
}

// TaskDetail is a task joined with the names the dashboard displays.
type TaskDetail struct {
	domain.Task
	AssigneeName string // empty when unassigned
	CreatorName  string
	ProjectName  string // empty when not linked
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, actor domain.Actor, input ListTasksInput) ([]TaskDetail, error)
	UpdateProgress(ctx context.Context, actor domain.Actor, input UpdateTaskInput) (*domain.Task, error)
}
