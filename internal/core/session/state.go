// Package session settles who is signed in and which role they hold, and
// decides what a protected route may do with that answer.
package session

import (
	"encoding/json"

	"github.com/doable/dashboard/internal/core/domain"
)

// State is an immutable snapshot of the session as seen by one request.
// Build it with Unauthenticated, Loading or Settled.
type State struct {
	session *domain.Session
	role    domain.Role
	loading bool
}

// Unauthenticated is the state with no identity.
func Unauthenticated() State {
	return State{}
}

// Loading is the state of a valid session whose role has not settled yet.
func Loading(sess domain.Session) State {
	return State{session: &sess, loading: true}
}

// Settled is the state of a valid session with its resolved role. A failed
// resolution settles with domain.RoleNone.
func Settled(sess domain.Session, role domain.Role) State {
	return State{session: &sess, role: role}
}

// Loading reports whether the role is still being resolved.
func (s State) Loading() bool { return s.loading }

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool { return s.session != nil }

// Role returns the resolved role, RoleNone while loading or signed out.
func (s State) Role() domain.Role { return s.role }

// Identity returns a copy of the signed-in identity.
func (s State) Identity() (domain.Identity, bool) {
	if s.session == nil {
		return domain.Identity{}, false
	}
	return s.session.Identity, true
}

// Session returns a copy of the underlying session.
func (s State) Session() (domain.Session, bool) {
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// Actor converts the state into the caller passed to services.
func (s State) Actor() domain.Actor {
	if s.session == nil {
		return domain.Actor{}
	}
	return domain.Actor{ID: s.session.Identity.ID, Role: s.role}
}

type stateJSON struct {
	Loading  bool             `json:"loading"`
	Identity *domain.Identity `json:"identity"`
	Role     string           `json:"role"`
}

// MarshalJSON renders the state as {loading, identity, role}.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{Loading: s.loading, Role: s.role.String()}
	if s.session != nil {
		id := s.session.Identity
		out.Identity = &id
	}
	return json.Marshal(out)
}
