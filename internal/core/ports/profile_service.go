package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// ProfileView is the profile page model: the profile plus the identity email.
type ProfileView struct {
	ID        string
	Email     string
	FullName  string
	Role      domain.Role
	CreatedAt time.Time
}

// ProfileService reads and edits profiles.
type ProfileService interface {
	Me(ctx context.Context, actor domain.Actor) (*ProfileView, error)
	UpdateFullName(ctx context.Context, actor domain.Actor, fullName string) (*ProfileView, error)
	ListEmployees(ctx context.Context) ([]*domain.Profile, error)
}
