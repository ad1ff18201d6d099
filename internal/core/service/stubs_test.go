package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

type stubIdentityRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Identity
	err  error
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byID: make(map[string]*domain.Identity)}
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return domain.ErrIdentityExists
		}
	}
	clone := *identity
	r.byID[identity.ID] = &clone
	return nil
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, identity := range r.byID {
		if identity.Email == email {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := *identity
	return &clone, nil
}

func (r *stubIdentityRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type stubProfileRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Profile
	createErr error
}

func newStubProfileRepo(profiles ...*domain.Profile) *stubProfileRepo {
	r := &stubProfileRepo{byID: make(map[string]*domain.Profile)}
	for _, p := range profiles {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Profile
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProfileRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Profile
	for _, p := range r.byID {
		if p.Role == role {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubProfileRepo) UpdateFullName(_ context.Context, id, fullName string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.FullName = fullName
	clone := *p
	return &clone, nil
}

type stubTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	count int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) matches(t *domain.Task, f ports.TaskFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.AssignedTo != "" && (t.AssignedTo == nil || *t.AssignedTo != f.AssignedTo) {
		return false
	}
	if !f.CreatedBefore.IsZero() && !t.CreatedAt.Before(f.CreatedBefore) {
		return false
	}
	return true
}

func (r *stubTaskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if r.matches(t, f) {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubTaskRepo) Count(_ context.Context, f ports.TaskFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	var n int64
	for _, t := range r.tasks {
		if r.matches(t, f) {
			n++
		}
	}
	return n, nil
}

func (r *stubTaskRepo) UpdateProgress(_ context.Context, id string, status domain.TaskStatus, remarks string, at time.Time) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Status = status
	t.Remarks = remarks
	t.UpdatedAt = at
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) countCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

type stubProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
}

func newStubProjectRepo(projects ...*domain.Project) *stubProjectRepo {
	r := &stubProjectRepo{projects: make(map[string]*domain.Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProjectRepo) List(_ context.Context) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Project
	for _, p := range r.projects {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubProjectRepo) Count(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.projects {
		if before.IsZero() || p.CreatedAt.Before(before) {
			n++
		}
	}
	return n, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return domain.ErrProjectNotFound
	}
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (r *stubRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.revoked[sessionID] = until
	return nil
}

func (r *stubRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[sessionID]
	return ok, nil
}

// recordingFeed captures published events.
type recordingFeed struct {
	mu      sync.Mutex
	changes []domain.ChangeEvent
	auth    []domain.AuthEvent
}

func (f *recordingFeed) PublishChange(_ context.Context, ev domain.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, ev)
	return nil
}

func (f *recordingFeed) SubscribeChanges(context.Context) (ports.Subscription[domain.ChangeEvent], error) {
	return nil, nil
}

func (f *recordingFeed) PublishAuth(_ context.Context, ev domain.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, ev)
	return nil
}

func (f *recordingFeed) SubscribeAuth(context.Context) (ports.Subscription[domain.AuthEvent], error) {
	return nil, nil
}

func (f *recordingFeed) lastChange() (domain.ChangeEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.changes) == 0 {
		return domain.ChangeEvent{}, false
	}
	return f.changes[len(f.changes)-1], true
}

func strPtr(s string) *string { return &s }
