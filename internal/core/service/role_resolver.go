package service

import (
	"context"
	"fmt"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// RoleResolver reads an identity's role from its profile row.
type RoleResolver struct {
	profiles ports.ProfileRepository
}

func NewRoleResolver(profiles ports.ProfileRepository) *RoleResolver {
	return &RoleResolver{profiles: profiles}
}

// Resolve returns the profile's role. A missing profile or a stored value
// outside the known roles is an error, never a guess.
func (r *RoleResolver) Resolve(ctx context.Context, identityID string) (role domain.Role, err error) {
	ctx, span := startSpan(ctx, "RoleResolver.Resolve")
	defer func() { endSpan(span, err) }()

	profile, err := r.profiles.FindByID(ctx, identityID)
	if err != nil {
		return domain.RoleNone, fmt.Errorf("resolve role: %w", err)
	}
	return domain.ParseRole(string(profile.Role))
}
