package realtime

import (
	"context"
	"sync"
	"time"
)

// Revocations is an in-memory RevocationStore paired with the local broker.
// Markers are dropped lazily once their token would have expired anyway.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *Revocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if !until.After(now) {
		return nil
	}
	r.revoked[sessionID] = until
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !exp.After(r.now()) {
		delete(r.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
