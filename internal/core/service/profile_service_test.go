package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
)

func TestProfileService_MeAndUpdate(t *testing.T) {
	identities := newStubIdentityRepo()
	_ = identities.Create(context.Background(), &domain.Identity{ID: "emp-1", Email: "eve@example.com"})
	profiles := newStubProfileRepo(&domain.Profile{ID: "emp-1", Role: domain.RoleEmployee})
	feed := &recordingFeed{}
	svc := NewProfileService(profiles, identities, feed, zerolog.Nop())
	ctx := context.Background()

	me, err := svc.Me(ctx, employeeActor)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "eve@example.com" || me.Role != domain.RoleEmployee {
		t.Fatalf("unexpected view: %+v", me)
	}

	me, err = svc.UpdateFullName(ctx, employeeActor, "  Eve Employee ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if me.FullName != "Eve Employee" || me.Role != domain.RoleEmployee {
		t.Fatalf("unexpected view after update: %+v", me)
	}
	if ev, ok := feed.lastChange(); !ok || ev.Table != domain.TableProfiles {
		t.Fatalf("expected profiles change event, got %+v", ev)
	}

	if _, err := svc.Me(ctx, domain.Actor{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without actor, got %v", err)
	}
}

func TestProfileService_ListEmployees(t *testing.T) {
	now := time.Now()
	profiles := newStubProfileRepo(
		&domain.Profile{ID: "a", Role: domain.RoleAdmin, CreatedAt: now},
		&domain.Profile{ID: "e2", Role: domain.RoleEmployee, CreatedAt: now},
		&domain.Profile{ID: "e1", Role: domain.RoleEmployee, CreatedAt: now.Add(-time.Hour)},
	)
	svc := NewProfileService(profiles, newStubIdentityRepo(), nil, zerolog.Nop())

	list, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "e1" || list[1].ID != "e2" {
		t.Fatalf("unexpected employees: %+v", list)
	}
}
