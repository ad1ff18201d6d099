package ports

import (
	"context"

	"github.com/doable/dashboard/internal/core/domain"
)

// ProfileRepository persists profiles. Role is read back verbatim; callers
// that need a trusted role go through a RoleResolver.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// FindByIDs returns the profiles that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error)
	// ListByRole returns profiles holding role, oldest first.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error)
	UpdateFullName(ctx context.Context, id, fullName string) (*domain.Profile, error)
}
