package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/api/handler"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/core/session"
	"github.com/doable/dashboard/internal/infrastructure/realtime"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/sessioncookie"
)

const csrfTestToken = "csrf-test-token"

// --- stubs ---

type stubSessions struct {
	states map[string]session.State
}

func (s *stubSessions) Current(_ context.Context, token string) session.State {
	if st, ok := s.states[token]; ok {
		return st
	}
	return session.Unauthenticated()
}

type stubAuth struct {
	signInErr  error
	signOutErr error
	signUpErr  error
	signedOut  string
	signedUp   ports.SignUpInput
}

func (s *stubAuth) SignIn(_ context.Context, email, _ string) (string, *domain.Session, error) {
	if s.signInErr != nil {
		return "", nil, s.signInErr
	}
	sess := testSession("signed-in")
	sess.Identity.Email = email
	return "fresh-token", &sess, nil
}

func (s *stubAuth) SignOut(_ context.Context, sess *domain.Session) error {
	if s.signOutErr != nil {
		return s.signOutErr
	}
	s.signedOut = sess.ID
	return nil
}

func (s *stubAuth) SignUp(_ context.Context, in ports.SignUpInput) (*domain.Profile, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	s.signedUp = in
	return &domain.Profile{ID: "p-new", FullName: in.FullName, Role: domain.RoleEmployee}, nil
}

func (s *stubAuth) Register(ctx context.Context, in ports.SignUpInput, _ domain.Role) (*domain.Profile, error) {
	return s.SignUp(ctx, in)
}

func (s *stubAuth) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

type stubTasks struct {
	created  ports.CreateTaskInput
	updated  ports.UpdateTaskInput
	actor    domain.Actor
	failWith error

	listed    []ports.TaskDetail
	listActor domain.Actor
	listErr   error
}

func (s *stubTasks) Create(_ context.Context, actor domain.Actor, in ports.CreateTaskInput) (*domain.Task, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.actor, s.created = actor, in
	return &domain.Task{ID: "t-new", Title: in.Title, Status: domain.TaskPending}, nil
}

func (s *stubTasks) List(_ context.Context, actor domain.Actor, _ ports.ListTasksInput) ([]ports.TaskDetail, error) {
	s.listActor = actor
	return s.listed, s.listErr
}

func (s *stubTasks) UpdateProgress(_ context.Context, actor domain.Actor, in ports.UpdateTaskInput) (*domain.Task, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.actor, s.updated = actor, in
	return &domain.Task{ID: in.ID, Status: domain.TaskStatus(in.Status), Remarks: in.Remarks}, nil
}

type stubDashboard struct {
	cards  []ports.StatCard
	recent []ports.TaskDetail
	err    error
}

func (s *stubDashboard) Stats(context.Context) (*ports.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.DashboardStats{Cards: s.cards}, nil
}

func (s *stubDashboard) RecentTasks(context.Context, domain.Actor) ([]ports.TaskDetail, error) {
	return s.recent, s.err
}

type stubProjects struct {
	projects map[string]*domain.Project
	lastID   string
	lastIn   ports.ProjectInput
}

func (s *stubProjects) List(context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProjects) Get(_ context.Context, id string) (*domain.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (s *stubProjects) Create(_ context.Context, in ports.ProjectInput) (*domain.Project, error) {
	s.lastIn = in
	return &domain.Project{ID: "p-new", Name: in.Name}, nil
}

func (s *stubProjects) Update(_ context.Context, id string, in ports.ProjectInput) (*domain.Project, error) {
	if _, ok := s.projects[id]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	s.lastID, s.lastIn = id, in
	return &domain.Project{ID: id, Name: in.Name}, nil
}

func (s *stubProjects) Options(context.Context) ([]ports.ProjectOption, error) {
	return []ports.ProjectOption{{ID: "p1", Name: "Website"}}, nil
}

type stubProfiles struct {
	employees []*domain.Profile
	newName   string
}

func (s *stubProfiles) Me(_ context.Context, actor domain.Actor) (*ports.ProfileView, error) {
	return &ports.ProfileView{ID: actor.ID, Email: actor.ID + "@example.com", FullName: "Ada Admin", Role: actor.Role}, nil
}

func (s *stubProfiles) UpdateFullName(_ context.Context, actor domain.Actor, name string) (*ports.ProfileView, error) {
	s.newName = name
	return &ports.ProfileView{ID: actor.ID, FullName: name, Role: actor.Role}, nil
}

func (s *stubProfiles) ListEmployees(context.Context) ([]*domain.Profile, error) {
	return s.employees, nil
}

type stubHub struct{}

func (stubHub) Listen() (<-chan realtime.Notification, func()) {
	ch := make(chan realtime.Notification)
	return ch, func() {}
}

// --- harness ---

type testServer struct {
	e         *echo.Echo
	auth      *stubAuth
	tasks     *stubTasks
	dashboard *stubDashboard
	projects  *stubProjects
	profiles  *stubProfiles
	referer   string
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

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		auth:  &stubAuth{},
		tasks: &stubTasks{
			listed: []ports.TaskDetail{{Task: domain.Task{ID: "t1", Title: "Write copy", Status: domain.TaskProcessing}}},
		},
		dashboard: &stubDashboard{
			cards:  []ports.StatCard{{Title: "Pending Tasks", Value: "3", Change: "+1"}},
			recent: []ports.TaskDetail{{Task: domain.Task{ID: "t1", Title: "Write copy", Status: domain.TaskProcessing}}},
		},
		projects: &stubProjects{projects: map[string]*domain.Project{
			"p1": {ID: "p1", Name: "Website", Description: "Rebuild", ClientName: "Acme", ClientEmail: "ops@acme.test",
				Budget: 12345, Deadline: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		}},
		profiles: &stubProfiles{employees: []*domain.Profile{{ID: "e1", FullName: "Eve Employee", Role: domain.RoleEmployee}}},
	}
	sessions := &stubSessions{states: map[string]session.State{
		"admin":    session.Settled(testSession("admin"), domain.RoleAdmin),
		"employee": session.Settled(testSession("employee"), domain.RoleEmployee),
		"roleless": session.Settled(testSession("roleless"), domain.RoleNone),
		"loading":  session.Loading(testSession("loading")),
	}}

	s.e = echo.New()
	s.e.Validator = handler.NewValidator()
	NewHandler(Deps{
		Log:       zerolog.Nop(),
		Sessions:  sessions,
		Auth:      s.auth,
		Tasks:     s.tasks,
		Projects:  s.projects,
		Profiles:  s.profiles,
		Dashboard: s.dashboard,
		Hub:       stubHub{},
	}).Register(s.e)
	return s
}

// do sends a request as the session behind token. A non-nil form is posted
// with a valid CSRF token.
func (s *testServer) do(method, target, token string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		form.Set(csrfField, csrfTestToken)
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	req.AddCookie(&http.Cookie{Name: "doable_csrf", Value: csrfTestToken})
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: token})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if s.referer != "" {
		req.Header.Set("Referer", s.referer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, code int, fragments ...string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
	for _, f := range fragments {
		if !strings.Contains(rec.Body.String(), f) {
			t.Fatalf("body missing %q:\n%s", f, rec.Body.String())
		}
	}
}

// --- tests ---

func TestIndex_ByState(t *testing.T) {
	s := newTestServer(t)

	expectRedirect(t, s.do(http.MethodGet, "/dashboard", "admin", nil), "/dashboard/admin")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard", "employee", nil), "/dashboard/employee")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard", "", nil), "/login")
	expectBody(t, s.do(http.MethodGet, "/dashboard", "roleless", nil), http.StatusOK, "Loading dashboard...")

	rec := s.do(http.MethodGet, "/dashboard", "loading", nil)
	expectBody(t, rec, http.StatusOK, "Loading...", `<meta http-equiv="refresh" content="1">`)
}

func TestLoading_PostRefreshesToSubmittingPage(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"title": {"Write copy"}, "status": {"pending"}}

	s.referer = "http://example.com/dashboard/admin?edit=1"
	rec := s.do(http.MethodPost, "/dashboard/admin/tasks", "loading", form)
	expectBody(t, rec, http.StatusOK, "Loading...", `content="1; url=/dashboard/admin?edit=1"`)
	if s.tasks.created.Title != "" {
		t.Fatalf("a loading session must not reach the handler")
	}

	s.referer = "https://elsewhere.test/phish"
	rec = s.do(http.MethodPost, "/dashboard/employee/tasks/t1", "loading", url.Values{"status": {"completed"}})
	expectBody(t, rec, http.StatusOK, `content="1; url=/dashboard"`)

	s.referer = ""
	rec = s.do(http.MethodPost, "/dashboard/projects", "loading", url.Values{"name": {"X"}})
	expectBody(t, rec, http.StatusOK, `content="1; url=/dashboard"`)
}

func TestRefreshTarget(t *testing.T) {
	cases := []struct {
		referer, want string
	}{
		{"http://example.com/dashboard/profile", "/dashboard/profile"},
		{"/dashboard/projects?edit=p1", "/dashboard/projects?edit=p1"},
		{"http://other.test/dashboard/profile", "/dashboard"},
		{"http://example.com", "/dashboard"},
		{"://bad", "/dashboard"},
		{"", "/dashboard"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/profile", nil)
		if tc.referer != "" {
			req.Header.Set("Referer", tc.referer)
		}
		if got := refreshTarget(req); got != tc.want {
			t.Fatalf("refreshTarget(%q) = %q, want %q", tc.referer, got, tc.want)
		}
	}
}

func TestGuard_RoleRestrictedPages(t *testing.T) {
	s := newTestServer(t)

	expectRedirect(t, s.do(http.MethodGet, "/dashboard/admin", "employee", nil), "/dashboard")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard/employees", "employee", nil), "/dashboard")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard/employee", "admin", nil), "/dashboard")
	expectRedirect(t, s.do(http.MethodGet, "/dashboard/admin", "roleless", nil), "/dashboard")

	rec := s.do(http.MethodGet, "/dashboard/admin", "loading", nil)
	expectBody(t, rec, http.StatusOK, "Loading...")
	if strings.Contains(rec.Body.String(), "Admin Dashboard") {
		t.Fatalf("loading session must not see protected content")
	}
}

func TestAdmin_RendersDashboard(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/dashboard/admin", "admin", nil)
	expectBody(t, rec, http.StatusOK,
		"Admin Dashboard", "Pending Tasks", "Write copy", "Unassigned",
		"Website", "Eve Employee", `href="/dashboard/employees"`)
}

func TestAdmin_Fragments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/dashboard/admin?fragment=stats", "admin", nil)
	expectBody(t, rec, http.StatusOK, "Pending Tasks")
	if strings.Contains(rec.Body.String(), "<html") {
		t.Fatalf("fragment must not include the shell")
	}

	rec = s.do(http.MethodGet, "/dashboard/admin?fragment=tasks", "admin", nil)
	expectBody(t, rec, http.StatusOK, "Write copy")

	rec = s.do(http.MethodGet, "/dashboard/admin?fragment=bogus", "admin", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fragment, got %d", rec.Code)
	}
}

func TestAdmin_LoadFailureShowsToast(t *testing.T) {
	s := newTestServer(t)
	s.dashboard.err = errors.New("db down")

	rec := s.do(http.MethodGet, "/dashboard/admin", "admin", nil)
	expectBody(t, rec, http.StatusOK, "Admin Dashboard", "Failed to load dashboard.")
}

func TestEmployee_NavHidesEmployees(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/dashboard/employee", "employee", nil)
	expectBody(t, rec, http.StatusOK, "My Tasks", "Write copy", `value="processing" selected`)
	if strings.Contains(rec.Body.String(), `href="/dashboard/employees"`) {
		t.Fatalf("employee nav must not link to the employees page")
	}
	if s.tasks.listActor.ID != "employee" || s.tasks.listActor.IsAdmin() {
		t.Fatalf("expected tasks listed for the employee, got %+v", s.tasks.listActor)
	}
}

func TestEmployee_ReadsTaskServiceDirectly(t *testing.T) {
	s := newTestServer(t)
	s.dashboard.recent = nil
	s.tasks.listed = []ports.TaskDetail{{Task: domain.Task{ID: "t9", Title: "Fresh row", Status: domain.TaskCompleted}}}

	rec := s.do(http.MethodGet, "/dashboard/employee", "employee", nil)
	expectBody(t, rec, http.StatusOK, "Fresh row", `value="completed" selected`)

	s.tasks.listErr = errors.New("db down")
	rec = s.do(http.MethodGet, "/dashboard/employee", "employee", nil)
	expectBody(t, rec, http.StatusOK, "My Tasks", "Failed to load tasks.")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/login", "", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	expectRedirect(t, rec, "/dashboard")
	if c := responseCookie(rec, sessioncookie.Name); c == nil || c.Value != "fresh-token" {
		t.Fatalf("expected session cookie, got %+v", c)
	}

	s.auth.signInErr = domain.ErrInvalidCredentials
	rec = s.do(http.MethodPost, "/login", "", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	expectBody(t, rec, http.StatusUnauthorized, "Invalid email or password.", `value="ada@example.com"`)

	rec = s.do(http.MethodPost, "/login", "", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	expectBody(t, rec, http.StatusUnprocessableEntity, "email")
}

func TestLoginForm_SignedInRedirects(t *testing.T) {
	s := newTestServer(t)

	expectRedirect(t, s.do(http.MethodGet, "/login", "admin", nil), "/dashboard")
	expectBody(t, s.do(http.MethodGet, "/login", "", nil), http.StatusOK, "Sign in", `name="_csrf"`)
}

func TestLogout(t *testing.T) {
	t.Run("success clears the cookie", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/logout", "admin", url.Values{})
		expectRedirect(t, rec, "/login")
		if s.auth.signedOut != "sess-admin" {
			t.Fatalf("expected sess-admin signed out, got %q", s.auth.signedOut)
		}
		if c := responseCookie(rec, sessioncookie.Name); c == nil || c.MaxAge >= 0 {
			t.Fatalf("expected session cookie to be cleared, got %+v", c)
		}
		if responseCookie(rec, flash.CookieName) == nil {
			t.Fatalf("expected a flash notice")
		}
	})

	t.Run("failure keeps the session", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.signOutErr = errors.New("network")
		rec := s.do(http.MethodPost, "/logout", "admin", url.Values{})
		expectRedirect(t, rec, "/dashboard")
		if c := responseCookie(rec, sessioncookie.Name); c != nil {
			t.Fatalf("session cookie must be kept, got %+v", c)
		}
		if responseCookie(rec, flash.CookieName) == nil {
			t.Fatalf("expected a failure notice")
		}
	})
}

func TestCSRF_RejectsForeignPost(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.c&password=x&_csrf=forged"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: "doable_csrf", Value: csrfTestToken})
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCreateTask(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/dashboard/admin/tasks", "admin", url.Values{
		"title":       {"  Ship it  "},
		"project_id":  {"p1"},
		"assigned_to": {"e1"},
		"due_date":    {"2026-05-01"},
	})
	expectRedirect(t, rec, "/dashboard/admin")
	if s.tasks.created.Title != "Ship it" || s.tasks.created.ProjectID != "p1" || s.tasks.created.AssignedTo != "e1" {
		t.Fatalf("unexpected input: %+v", s.tasks.created)
	}
	if s.tasks.created.DueDate == nil || s.tasks.created.DueDate.Format(dateLayout) != "2026-05-01" {
		t.Fatalf("unexpected due date: %v", s.tasks.created.DueDate)
	}
	if s.tasks.actor.ID != "admin" || s.tasks.actor.Role != domain.RoleAdmin {
		t.Fatalf("unexpected actor: %+v", s.tasks.actor)
	}
}

func TestCreateTask_InvalidKeepsValues(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/dashboard/admin/tasks", "admin", url.Values{
		"title":       {""},
		"description": {"keep me"},
		"project_id":  {"p1"},
	})
	expectBody(t, rec, http.StatusUnprocessableEntity, "title", "keep me", `value="p1" selected`)
}

func TestUpdateTask(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/dashboard/employee/tasks/t1", "employee", url.Values{
		"status":  {"completed"},
		"remarks": {"done"},
	})
	expectRedirect(t, rec, "/dashboard/employee")
	if s.tasks.updated.ID != "t1" || s.tasks.updated.Status != "completed" || s.tasks.updated.Remarks != "done" {
		t.Fatalf("unexpected update: %+v", s.tasks.updated)
	}

	s.tasks.failWith = domain.ErrForbidden
	rec = s.do(http.MethodPost, "/dashboard/employee/tasks/t2", "employee", url.Values{"status": {"completed"}})
	expectRedirect(t, rec, "/dashboard/employee")
	c := responseCookie(rec, flash.CookieName)
	if c == nil {
		t.Fatalf("expected failure notice")
	}
}

func TestFlash_ShownOnce(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/dashboard/employee/tasks/t1", "employee", url.Values{"status": {"completed"}})
	notice := responseCookie(rec, flash.CookieName)
	if notice == nil {
		t.Fatalf("expected flash cookie")
	}

	rec = s.do(http.MethodGet, "/dashboard/employee", "employee", nil, &http.Cookie{Name: notice.Name, Value: notice.Value})
	expectBody(t, rec, http.StatusOK, "Task updated successfully")
	if c := responseCookie(rec, flash.CookieName); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected flash cookie to be cleared, got %+v", c)
	}
}

func TestCreateEmployee(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/dashboard/employees", "admin", url.Values{
		"full_name": {"New Hire"},
		"email":     {"hire@example.com"},
		"password":  {"secret1"},
	})
	expectRedirect(t, rec, "/dashboard/employees")
	if s.auth.signedUp.Email != "hire@example.com" || s.auth.signedUp.FullName != "New Hire" {
		t.Fatalf("unexpected sign up: %+v", s.auth.signedUp)
	}
	if c := responseCookie(rec, sessioncookie.Name); c != nil {
		t.Fatalf("creating an employee must not touch the admin session")
	}

	s.auth.signUpErr = domain.ErrIdentityExists
	rec = s.do(http.MethodPost, "/dashboard/employees", "admin", url.Values{
		"full_name": {"New Hire"},
		"email":     {"hire@example.com"},
		"password":  {"secret1"},
	})
	expectBody(t, rec, http.StatusConflict, "already exists", `value="hire@example.com"`)

	rec = s.do(http.MethodPost, "/dashboard/employees", "admin", url.Values{
		"full_name": {"Short"},
		"email":     {"short@example.com"},
		"password":  {"123"},
	})
	expectBody(t, rec, http.StatusUnprocessableEntity, "password")
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)

	expectBody(t, s.do(http.MethodGet, "/dashboard/profile", "employee", nil), http.StatusOK,
		"Ada Admin", "employee@example.com")

	rec := s.do(http.MethodPost, "/dashboard/profile", "employee", url.Values{"full_name": {"  Eve  "}})
	expectRedirect(t, rec, "/dashboard/profile")
	if s.profiles.newName != "Eve" {
		t.Fatalf("expected trimmed name, got %q", s.profiles.newName)
	}

	rec = s.do(http.MethodPost, "/dashboard/profile", "employee", url.Values{"full_name": {""}})
	expectBody(t, rec, http.StatusUnprocessableEntity, "full name is required")
}

func TestProjects(t *testing.T) {
	s := newTestServer(t)

	expectBody(t, s.do(http.MethodGet, "/dashboard/projects", "employee", nil), http.StatusOK,
		"Website", "$12,345", "Mar 1, 2026", "New Project")

	expectBody(t, s.do(http.MethodGet, "/dashboard/projects?edit=p1", "admin", nil), http.StatusOK,
		"Edit Project", `action="/dashboard/projects/p1"`, `value="2026-03-01"`, `value="12345"`)

	form := url.Values{
		"name":         {"Website v2"},
		"description":  {"Rebuild"},
		"client_name":  {"Acme"},
		"client_email": {"ops@acme.test"},
		"budget":       {"2500.5"},
		"deadline":     {"2026-06-30"},
	}
	rec := s.do(http.MethodPost, "/dashboard/projects/p1", "admin", form)
	expectRedirect(t, rec, "/dashboard/projects")
	if s.projects.lastID != "p1" || s.projects.lastIn.Budget != 2500.5 || s.projects.lastIn.Name != "Website v2" {
		t.Fatalf("unexpected update: %s %+v", s.projects.lastID, s.projects.lastIn)
	}

	rec = s.do(http.MethodPost, "/dashboard/projects/missing", "admin", url.Values{
		"name":         {"X"},
		"description":  {"Y"},
		"client_name":  {"Acme"},
		"client_email": {"ops@acme.test"},
		"budget":       {"1"},
		"deadline":     {"2026-06-30"},
	})
	expectBody(t, rec, http.StatusNotFound, "project not found")

	rec = s.do(http.MethodPost, "/dashboard/projects", "admin", url.Values{
		"name":         {"New"},
		"description":  {"Thing"},
		"client_name":  {"Acme"},
		"client_email": {"ops@acme.test"},
		"budget":       {"lots"},
		"deadline":     {"2026-06-30"},
	})
	expectBody(t, rec, http.StatusUnprocessableEntity, "budget", `value="New"`)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	expectBody(t, s.do(http.MethodGet, "/no/such/page", "", nil), http.StatusNotFound, "Oops! Page not found")
}

func TestErrorPage(t *testing.T) {
	h := NewHandler(Deps{Log: zerolog.Nop(), Hub: stubHub{}})
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)
	if err := h.ErrorPage(c, http.StatusInternalServerError, "boom: secret detail"); err != nil {
		t.Fatalf("ErrorPage: %v", err)
	}
	expectBody(t, rec, http.StatusInternalServerError, "Something went wrong")
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Fatalf("internal detail leaked into the page")
	}
}
