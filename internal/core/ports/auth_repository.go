package ports

import (
	"context"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
)

// IdentityRepository persists sign-in credentials.
type IdentityRepository interface {
	// Create stores a new identity. Emails are unique; a duplicate yields
	// domain.ErrIdentityExists.
	Create(ctx context.Context, identity *domain.Identity) error
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// Delete removes an identity. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// RevocationStore remembers signed-out session ids until their tokens expire.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
