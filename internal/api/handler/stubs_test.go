package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/core/session"
)

type stubAuthService struct {
	signInFn  func(ctx context.Context, email, password string) (string, *domain.Session, error)
	signOutFn func(ctx context.Context, s *domain.Session) error
	signUpFn  func(ctx context.Context, in ports.SignUpInput) (*domain.Profile, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) SignOut(ctx context.Context, sess *domain.Session) error {
	return s.signOutFn(ctx, sess)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.Profile, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.SignUpInput, _ domain.Role) (*domain.Profile, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

type stubSessions struct {
	state session.State
}

func (s *stubSessions) Current(context.Context, string) session.State { return s.state }

type stubTaskService struct {
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateTaskInput) (*domain.Task, error)
	listFn   func(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) ([]ports.TaskDetail, error)
	updateFn func(ctx context.Context, actor domain.Actor, in ports.UpdateTaskInput) (*domain.Task, error)
}

func (s *stubTaskService) Create(ctx context.Context, actor domain.Actor, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) List(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) ([]ports.TaskDetail, error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubTaskService) UpdateProgress(ctx context.Context, actor domain.Actor, in ports.UpdateTaskInput) (*domain.Task, error) {
	return s.updateFn(ctx, actor, in)
}

type stubDashboard struct {
	stats  *ports.DashboardStats
	recent []ports.TaskDetail
	err    error
}

func (s *stubDashboard) Stats(context.Context) (*ports.DashboardStats, error) {
	return s.stats, s.err
}

func (s *stubDashboard) RecentTasks(context.Context, domain.Actor) ([]ports.TaskDetail, error) {
	return s.recent, s.err
}

type stubProjectService struct {
	projects map[string]*domain.Project
	lastIn   ports.ProjectInput
}

func (s *stubProjectService) List(context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProjectService) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (s *stubProjectService) Create(_ context.Context, in ports.ProjectInput) (*domain.Project, error) {
	s.lastIn = in
	p := &domain.Project{ID: "p-new", Name: in.Name, Description: in.Description, Status: in.Status,
		ClientName: in.ClientName, ClientEmail: in.ClientEmail, Budget: in.Budget, Deadline: in.Deadline}
	return p, nil
}

func (s *stubProjectService) Update(_ context.Context, id string, in ports.ProjectInput) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	s.lastIn = in
	updated := *p
	updated.Name, updated.Budget, updated.Deadline = in.Name, in.Budget, in.Deadline
	return &updated, nil
}

func (s *stubProjectService) Options(context.Context) ([]ports.ProjectOption, error) {
	return nil, nil
}

type stubProfileService struct {
	me        *ports.ProfileView
	employees []*domain.Profile
	newName   string
}

func (s *stubProfileService) Me(context.Context, domain.Actor) (*ports.ProfileView, error) {
	if s.me == nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.me, nil
}

func (s *stubProfileService) UpdateFullName(_ context.Context, _ domain.Actor, name string) (*ports.ProfileView, error) {
	s.newName = name
	v := *s.me
	v.FullName = name
	return &v, nil
}

func (s *stubProfileService) ListEmployees(context.Context) ([]*domain.Profile, error) {
	return s.employees, nil
}

// --- helpers ---

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func testSession(id string) domain.Session {
	now := time.Now().UTC()
	return domain.Session{
		ID:        "sess-" + id,
		Identity:  domain.Identity{ID: id, Email: id + "@example.com"},
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

// withState runs the request through the Session middleware with a fixed state.
func withState(e *echo.Echo, req *http.Request, st session.State, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := middleware.Session(&stubSessions{state: st})(h)(c)
	return rec, err
}

func httpCode(t *testing.T, rec *httptest.ResponseRecorder, err error) int {
	t.Helper()
	if err == nil {
		return rec.Code
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	t.Fatalf("expected HTTP error, got %v", err)
	return 0
}
