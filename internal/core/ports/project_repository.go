package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error)
	// List returns all projects, newest first.
	List(ctx context.Context) ([]*domain.Project, error)
	// Count counts projects; a non-zero createdBefore counts only older rows.
	Count(ctx context.Context, createdBefore time.Time) (int64, error)
	// Update overwrites the editable fields of the project with the same ID.
	Update(ctx context.Context, project *domain.Project) error
}
