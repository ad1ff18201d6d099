package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// MinPasswordLength is the shortest password sign-up accepts.
const MinPasswordLength = 6

// sessionClaims is the JWT payload: subject is the identity id and the
// registered ID claim carries the revocable session id.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Identities  ports.IdentityRepository
	Profiles    ports.ProfileRepository
	Revocations ports.RevocationStore
	AuthEvents  ports.AuthEventBus
	Changes     ports.ChangeFeed
}

// AuthService implements sign-in, sign-out and sign-up over signed session tokens.
type AuthService struct {
	deps      AuthDeps
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(deps AuthDeps, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		deps:      deps,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (token string, sess *domain.Session, err error) {
	ctx, span := startSpan(ctx, "AuthService.SignIn")
	defer func() { endSpan(span, err) }()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	identity, err := s.deps.Identities.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	sess = &domain.Session{
		ID:        uuid.NewString(),
		Identity:  domain.Identity{ID: identity.ID, Email: identity.Email, CreatedAt: identity.CreatedAt},
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	token, err = s.generateToken(sess)
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}

	publishAuth(ctx, s.deps.AuthEvents, s.log, domain.AuthEvent{Kind: domain.AuthSignedIn, SessionID: sess.ID, IdentityID: identity.ID})
	return token, sess, nil
}

func (s *AuthService) SignOut(ctx context.Context, sess *domain.Session) (err error) {
	ctx, span := startSpan(ctx, "AuthService.SignOut")
	defer func() { endSpan(span, err) }()

	if sess == nil || sess.ID == "" {
		return domain.ErrInvalidCredentials
	}
	if err := s.deps.Revocations.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	publishAuth(ctx, s.deps.AuthEvents, s.log, domain.AuthEvent{Kind: domain.AuthSignedOut, SessionID: sess.ID, IdentityID: sess.Identity.ID})
	return nil
}

func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*domain.Profile, error) {
	return s.Register(ctx, input, domain.RoleEmployee)
}

func (s *AuthService) Register(ctx context.Context, input ports.SignUpInput, role domain.Role) (profile *domain.Profile, err error) {
	ctx, span := startSpan(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	email := normalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	case len(input.Password) < MinPasswordLength:
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	case !role.Valid():
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, string(role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.deps.Identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	profile = &domain.Profile{
		ID:        identity.ID,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
	}
	if err := s.deps.Profiles.Create(ctx, profile); err != nil {
		// Without a profile the identity could sign in with no role and
		// would block the email from registering again.
		if derr := s.deps.Identities.Delete(ctx, identity.ID); derr != nil {
			s.log.Error().Err(derr).Str("identity_id", identity.ID).Msg("failed to remove identity after profile error")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info().Str("identity_id", identity.ID).Str("role", role.String()).Msg("identity registered")
	publishChange(ctx, s.deps.Changes, s.log, domain.TableProfiles, domain.ChangeInsert, profile.ID)
	return profile, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	revoked, err := s.deps.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if revoked {
		return nil, domain.ErrSessionRevoked
	}

	sess := &domain.Session{
		ID:       claims.ID,
		Identity: domain.Identity{ID: claims.Subject, Email: claims.Email},
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *AuthService) generateToken(sess *domain.Session) (string, error) {
	claims := sessionClaims{
		Email: sess.Identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Identity.ID,
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
