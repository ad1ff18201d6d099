package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// ProjectInput carries the shared create/edit project form.
type ProjectInput struct {
	Name        string
	Description string
	Status      string
	ClientName  string
	ClientEmail string
	Budget      float64
	Deadline    time.Time
}

// ProjectOption is a select-list entry.
type ProjectOption struct {
	ID   string
	Name string
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	List(ctx context.Context) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, input ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, input ProjectInput) (*domain.Project, error)
	// Options lists projects ordered by name for the task form.
	Options(ctx context.Context) ([]ProjectOption, error)
}
