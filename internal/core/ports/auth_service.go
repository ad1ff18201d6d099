package ports

import (
	"context"

	"github.com/doable/dashboard/internal/core/domain"
)

// SignUpInput carries the fields collected by the employee creation form.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// AuthService issues and revokes sessions and creates identities.
type AuthService interface {
	// SignIn verifies credentials and returns a signed session token.
	SignIn(ctx context.Context, email, password string) (string, *domain.Session, error)
	// SignOut revokes the session so its token is no longer accepted.
	SignOut(ctx context.Context, session *domain.Session) error
	// SignUp creates an identity plus an employee profile. The caller's own
	// session is left untouched.
	SignUp(ctx context.Context, input SignUpInput) (*domain.Profile, error)
	// Register is SignUp with an explicit role; used to bootstrap admins.
	Register(ctx context.Context, input SignUpInput, role domain.Role) (*domain.Profile, error)
	// Authenticate validates a token and returns the live session it names.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// RoleResolver looks up the role stored on an identity's profile.
type RoleResolver interface {
	Resolve(ctx context.Context, identityID string) (domain.Role, error)
}
