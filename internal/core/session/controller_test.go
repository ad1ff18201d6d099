package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

type stubAuth struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	revoked  map[string]bool
}

func newStubAuth(tokens ...string) *stubAuth {
	a := &stubAuth{sessions: make(map[string]domain.Session), revoked: make(map[string]bool)}
	for _, tok := range tokens {
		a.sessions[tok] = domain.Session{
			ID:        "sid-" + tok,
			Identity:  domain.Identity{ID: "user-" + tok, Email: tok + "@example.com"},
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	return a
}

func (a *stubAuth) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sess, ok := a.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if a.revoked[sess.ID] {
		return nil, domain.ErrSessionRevoked
	}
	return &sess, nil
}

func (a *stubAuth) revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revoked[a.sessions[token].ID] = true
}

type stubResolver struct {
	calls atomic.Int32
	gate  chan struct{}
	mu    sync.Mutex
	roles map[string]domain.Role
	err   error
}

func (r *stubResolver) Resolve(ctx context.Context, identityID string) (domain.Role, error) {
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return domain.RoleNone, ctx.Err()
		}
	}
	if r.err != nil {
		return domain.RoleNone, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[identityID], nil
}

func (r *stubResolver) set(identityID string, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[identityID] = role
}

type stubSub struct {
	ch   chan domain.AuthEvent
	once sync.Once
}

func (s *stubSub) C() <-chan domain.AuthEvent { return s.ch }
func (s *stubSub) Unsubscribe() { s.once.Do(func() { close(s.ch) }) }

type stubBus struct {
	mu   sync.Mutex
	subs []*stubSub
}

func (b *stubBus) PublishAuth(_ context.Context, ev domain.AuthEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		s.ch <- ev
	}
	return nil
}

func (b *stubBus) SubscribeAuth(context.Context) (ports.Subscription[domain.AuthEvent], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &stubSub{ch: make(chan domain.AuthEvent, 8)}
	b.subs = append(b.subs, s)
	return s, nil
}

func newTestController(auth *stubAuth, resolver *stubResolver, settle time.Duration) (*Controller, *stubBus) {
	bus := &stubBus{}
	return NewController(auth, resolver, bus, Config{SettleTimeout: settle}, zerolog.Nop()), bus
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestController_EmptyAndInvalidTokens(t *testing.T) {
	resolver := &stubResolver{roles: map[string]domain.Role{}}
	c, _ := newTestController(newStubAuth("ana"), resolver, time.Second)

	for _, tok := range []string{"", "garbage"} {
		s := c.Current(context.Background(), tok)
		if s.Authenticated() || s.Loading() || s.Role() != domain.RoleNone {
			t.Fatalf("token %q: expected unauthenticated, got %+v", tok, s)
		}
	}
	if resolver.calls.Load() != 0 {
		t.Fatalf("resolver should not run for unauthenticated callers")
	}
}

func TestController_ResolvesRoleOncePerSession(t *testing.T) {
	resolver := &stubResolver{roles: map[string]domain.Role{"user-ana": domain.RoleAdmin}}
	c, _ := newTestController(newStubAuth("ana"), resolver, time.Second)

	for i := 0; i < 3; i++ {
		s := c.Current(context.Background(), "ana")
		if s.Loading() || s.Role() != domain.RoleAdmin {
			t.Fatalf("expected settled admin, got loading=%v role=%s", s.Loading(), s.Role())
		}
	}
	if n := resolver.calls.Load(); n != 1 {
		t.Fatalf("expected one resolution, got %d", n)
	}
}

func TestController_LoadingUntilSettled(t *testing.T) {
	resolver := &stubResolver{gate: make(chan struct{}), roles: map[string]domain.Role{"user-ana": domain.RoleEmployee}}
	c, _ := newTestController(newStubAuth("ana"), resolver, 10*time.Millisecond)

	s := c.Current(context.Background(), "ana")
	if !s.Loading() || !s.Authenticated() {
		t.Fatalf("expected loading state, got loading=%v auth=%v", s.Loading(), s.Authenticated())
	}
	if Decide(s, domain.RoleEmployee) != OutcomeLoading {
		t.Fatalf("guard must wait while loading")
	}

	close(resolver.gate)
	eventually(t, func() bool {
		s := c.Current(context.Background(), "ana")
		return !s.Loading() && s.Role() == domain.RoleEmployee
	})
}

func TestController_ResolverFailureSettlesRoleless(t *testing.T) {
	resolver := &stubResolver{err: errors.New("db down"), roles: map[string]domain.Role{}}
	c, _ := newTestController(newStubAuth("ana"), resolver, time.Second)

	s := c.Current(context.Background(), "ana")
	if s.Loading() {
		t.Fatalf("failure must not leave the state loading")
	}
	if !s.Authenticated() || s.Role() != domain.RoleNone {
		t.Fatalf("expected authenticated roleless state, got role=%s", s.Role())
	}
	if Decide(s, domain.RoleAdmin) != OutcomeDenied {
		t.Fatalf("roleless caller must be denied on restricted routes")
	}
}

func TestController_SignOutClearsState(t *testing.T) {
	auth := newStubAuth("ana")
	resolver := &stubResolver{roles: map[string]domain.Role{"user-ana": domain.RoleAdmin}}
	c, _ := newTestController(auth, resolver, time.Second)

	if s := c.Current(context.Background(), "ana"); s.Role() != domain.RoleAdmin {
		t.Fatalf("expected admin before sign-out")
	}

	auth.revoke("ana")
	c.Apply(domain.AuthEvent{Kind: domain.AuthSignedOut, SessionID: "sid-ana", IdentityID: "user-ana"})

	s := c.Current(context.Background(), "ana")
	if s.Authenticated() || s.Role() != domain.RoleNone || s.Loading() {
		t.Fatalf("expected signed-out state, got auth=%v role=%s", s.Authenticated(), s.Role())
	}
}

func TestController_UserUpdatedReResolves(t *testing.T) {
	resolver := &stubResolver{roles: map[string]domain.Role{"user-ana": domain.RoleEmployee}}
	c, _ := newTestController(newStubAuth("ana"), resolver, time.Second)

	if s := c.Current(context.Background(), "ana"); s.Role() != domain.RoleEmployee {
		t.Fatalf("expected employee, got %s", s.Role())
	}

	resolver.set("user-ana", domain.RoleAdmin)
	c.Apply(domain.AuthEvent{Kind: domain.AuthUserUpdated, IdentityID: "user-ana"})

	if s := c.Current(context.Background(), "ana"); s.Role() != domain.RoleAdmin {
		t.Fatalf("expected admin after update, got %s", s.Role())
	}
	if n := resolver.calls.Load(); n != 2 {
		t.Fatalf("expected two resolutions, got %d", n)
	}
}

func TestController_StartSubscribesOnce(t *testing.T) {
	resolver := &stubResolver{roles: map[string]domain.Role{"user-ana": domain.RoleAdmin}}
	c, bus := newTestController(newStubAuth("ana"), resolver, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(ctx); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	bus.mu.Lock()
	subs := len(bus.subs)
	bus.mu.Unlock()
	if subs != 1 {
		t.Fatalf("expected exactly one subscription, got %d", subs)
	}

	if err := bus.PublishAuth(ctx, domain.AuthEvent{Kind: domain.AuthSignedIn, SessionID: "sid-ana", IdentityID: "user-ana"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	eventually(t, func() bool { return resolver.calls.Load() == 1 })

	if s := c.Current(ctx, "ana"); s.Role() != domain.RoleAdmin {
		t.Fatalf("expected pre-warmed admin, got %s", s.Role())
	}
	if n := resolver.calls.Load(); n != 1 {
		t.Fatalf("pre-warmed session should not resolve again, got %d calls", n)
	}

	c.Close()
	c.Close()
}
