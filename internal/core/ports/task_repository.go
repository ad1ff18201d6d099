package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// TaskFilter narrows task queries. Zero-valued fields do not filter.
type TaskFilter struct {
	Status        domain.TaskStatus
	AssignedTo    string
	CreatedBefore time.Time
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns matching tasks, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	// UpdateProgress sets status and remarks and bumps updated_at.
	UpdateProgress(ctx context.Context, id string, status domain.TaskStatus, remarks string, at time.Time) (*domain.Task, error)
}
