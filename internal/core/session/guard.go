package session

import (
	"slices"

	"github.com/doable/dashboard/internal/core/domain"
)

// Outcome is what a route guard does for a given State.
type Outcome int

const (
	// OutcomeLoading shows a loading placeholder; it never redirects.
	OutcomeLoading Outcome = iota
	// OutcomeUnauthenticated sends the caller to the login page.
	OutcomeUnauthenticated
	// OutcomeDenied sends an authenticated caller to the dashboard root.
	OutcomeDenied
	// OutcomeAllowed renders the protected content.
	OutcomeAllowed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeDenied:
		return "denied"
	case OutcomeAllowed:
		return "allowed"
	}
	return "unknown"
}

// Decide maps a state and an allow-set to a guard outcome. An empty allow-set
// admits any authenticated caller; a non-empty one denies callers without a
// role, including those whose role failed to resolve.
func Decide(s State, allowed ...domain.Role) Outcome {
	switch {
	case s.Loading():
		return OutcomeLoading
	case !s.Authenticated():
		return OutcomeUnauthenticated
	case len(allowed) == 0:
		return OutcomeAllowed
	case s.Role() == domain.RoleNone || !slices.Contains(allowed, s.Role()):
		return OutcomeDenied
	}
	return OutcomeAllowed
}
