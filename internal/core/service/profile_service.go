package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

type ProfileService struct {
	profiles   ports.ProfileRepository
	identities ports.IdentityRepository
	changes    ports.ChangeFeed
	log        zerolog.Logger
}

func NewProfileService(profiles ports.ProfileRepository, identities ports.IdentityRepository, changes ports.ChangeFeed, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		identities: identities,
		changes:    changes,
		log:        log.With().Str("component", "profiles").Logger(),
	}
}

func (s *ProfileService) Me(ctx context.Context, actor domain.Actor) (*ports.ProfileView, error) {
	if actor.ID == "" {
		return nil, domain.ErrForbidden
	}
	profile, err := s.profiles.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, profile)
}

// UpdateFullName changes the caller's display name. Role is never writable here.
func (s *ProfileService) UpdateFullName(ctx context.Context, actor domain.Actor, fullName string) (*ports.ProfileView, error) {
	if actor.ID == "" {
		return nil, domain.ErrForbidden
	}
	profile, err := s.profiles.UpdateFullName(ctx, actor.ID, strings.TrimSpace(fullName))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	publishChange(ctx, s.changes, s.log, domain.TableProfiles, domain.ChangeUpdate, profile.ID)
	return s.view(ctx, profile)
}

// ListEmployees returns employee profiles, oldest first.
func (s *ProfileService) ListEmployees(ctx context.Context) ([]*domain.Profile, error) {
	profiles, err := s.profiles.ListByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return profiles, nil
}

func (s *ProfileService) view(ctx context.Context, p *domain.Profile) (*ports.ProfileView, error) {
	identity, err := s.identities.FindByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("profile identity: %w", err)
	}
	return &ports.ProfileView{
		ID:        p.ID,
		Email:     identity.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}, nil
}
