package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

const (
	defaultSettleTimeout = 2 * time.Second
	defaultIdleTTL       = 24 * time.Hour
	resolveTimeout       = 5 * time.Second
	pruneInterval        = time.Minute
)

// ErrAlreadyStarted is returned by a second Start call.
var ErrAlreadyStarted = errors.New("session controller already started")

// Authenticator validates session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Config tunes a Controller.
type Config struct {
	// SettleTimeout bounds how long Current waits for role resolution before
	// answering with a loading state.
	SettleTimeout time.Duration
	// IdleTTL drops cached roles for sessions not seen for this long.
	IdleTTL time.Duration
}

// entry is replaced, never mutated, when a session's role is re-resolved.
// role is written once before settled is closed.
type entry struct {
	identityID string
	role       domain.Role
	settled    chan struct{}
	lastSeen   time.Time
}

// Controller owns the process-wide view of sessions and their roles. It
// resolves each session's role once, re-resolving only when an auth event
// says the session or its identity changed.
type Controller struct {
	auth     Authenticator
	resolver ports.RoleResolver
	bus      ports.AuthEventBus
	cfg      Config
	log      zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	started bool
	sub     ports.Subscription[domain.AuthEvent]
	done    chan struct{}
}

// NewController wires a Controller. Start must be called to follow auth events.
func NewController(auth Authenticator, resolver ports.RoleResolver, bus ports.AuthEventBus, cfg Config, log zerolog.Logger) *Controller {
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = defaultSettleTimeout
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &Controller{
		auth:     auth,
		resolver: resolver,
		bus:      bus,
		cfg:      cfg,
		log:      log.With().Str("component", "session").Logger(),
		entries:  make(map[string]*entry),
	}
}

// Current returns the state for token. Invalid, expired and revoked tokens
// yield Unauthenticated. A valid token whose role has not settled within
// SettleTimeout yields a Loading state.
func (c *Controller) Current(ctx context.Context, token string) State {
	if token == "" {
		return Unauthenticated()
	}
	sess, err := c.auth.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) && !errors.Is(err, domain.ErrSessionRevoked) {
			c.log.Warn().Err(err).Msg("session lookup failed")
		}
		return Unauthenticated()
	}

	e := c.lookup(sess.ID, sess.Identity.ID)

	timer := time.NewTimer(c.cfg.SettleTimeout)
	defer timer.Stop()
	select {
	case <-e.settled:
		return Settled(*sess, e.role)
	case <-timer.C:
		return Loading(*sess)
	case <-ctx.Done():
		return Loading(*sess)
	}
}

// Start subscribes to auth-state changes. Only one subscription may exist per
// Controller; a second call returns ErrAlreadyStarted.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	sub, err := c.bus.SubscribeAuth(ctx)
	if err != nil {
		return err
	}
	c.started = true
	c.sub = sub
	c.done = make(chan struct{})
	go c.run(ctx, sub, c.done)
	return nil
}

// Close drops the auth subscription and waits for the event loop to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	sub, done := c.sub, c.done
	c.sub = nil
	c.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Unsubscribe()
	<-done
}

// Apply folds one auth event into the cached session view.
func (c *Controller) Apply(ev domain.AuthEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case domain.AuthSignedOut:
		delete(c.entries, ev.SessionID)
	case domain.AuthSignedIn:
		if ev.SessionID == "" {
			return
		}
		c.entries[ev.SessionID] = c.resolveLocked(ev.IdentityID)
	case domain.AuthUserUpdated:
		for sid, e := range c.entries {
			if e.identityID == ev.IdentityID {
				c.entries[sid] = c.resolveLocked(ev.IdentityID)
			}
		}
	default:
		c.log.Debug().Str("kind", string(ev.Kind)).Msg("ignoring auth event")
	}
}

func (c *Controller) run(ctx context.Context, sub ports.Subscription[domain.AuthEvent], done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.prune(time.Now())
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			c.Apply(ev)
		}
	}
}

func (c *Controller) lookup(sessionID, identityID string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sessionID]
	if !ok || e.identityID != identityID {
		e = c.resolveLocked(identityID)
		c.entries[sessionID] = e
	}
	e.lastSeen = time.Now()
	return e
}

// resolveLocked starts role resolution for identityID. c.mu must be held.
func (c *Controller) resolveLocked(identityID string) *entry {
	e := &entry{identityID: identityID, settled: make(chan struct{}), lastSeen: time.Now()}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		role, err := c.resolver.Resolve(ctx, identityID)
		if err != nil {
			c.log.Warn().Err(err).Str("identity_id", identityID).Msg("role resolution failed")
			role = domain.RoleNone
		}
		e.role = role
		close(e.settled)
	}()
	return e
}

func (c *Controller) prune(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for sid, e := range c.entries {
		if now.Sub(e.lastSeen) > c.cfg.IdleTTL {
			delete(c.entries, sid)
		}
	}
}
