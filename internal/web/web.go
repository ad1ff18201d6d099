// Package web serves the server-rendered dashboard: landing, sign-in and the
// role-gated /dashboard pages.
package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/api/handler"
	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/views"
)

const csrfField = "_csrf"

// Deps is everything the pages need.
type Deps struct {
	Log          zerolog.Logger
	Sessions     middleware.SessionSource
	Auth         ports.AuthService
	Tasks        ports.TaskService
	Projects     ports.ProjectService
	Profiles     ports.ProfileService
	Dashboard    ports.DashboardService
	Hub          handler.Listener
	CookieSecure bool
}

// Handler renders the dashboard pages.
type Handler struct {
	log          zerolog.Logger
	sessions     middleware.SessionSource
	auth         ports.AuthService
	tasks        ports.TaskService
	projects     ports.ProjectService
	profiles     ports.ProfileService
	dashboard    ports.DashboardService
	stream       echo.HandlerFunc
	cookieSecure bool
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		log:          d.Log.With().Str("component", "web").Logger(),
		sessions:     d.Sessions,
		auth:         d.Auth,
		tasks:        d.Tasks,
		projects:     d.Projects,
		profiles:     d.Profiles,
		dashboard:    d.Dashboard,
		stream:       handler.NewRealtimeHandler(d.Hub).Stream,
		cookieSecure: d.CookieSecure,
	}
}

// Register adds the page routes to e. Middleware is attached per route so
// the catch-all not-found route stays the only wildcard.
func (h *Handler) Register(e *echo.Echo) {
	base := []echo.MiddlewareFunc{
		middleware.Session(h.sessions),
		echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			CookieName:     "doable_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   h.cookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}),
	}
	with := func(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, base...), extra...)
	}
	signedIn := with(middleware.Guard(h.loading))
	admin := with(middleware.Guard(h.loading, domain.RoleAdmin))
	employee := with(middleware.Guard(h.loading, domain.RoleEmployee))

	e.GET("/", h.Landing, base...)
	e.GET("/login", h.LoginForm, base...)
	e.POST("/login", h.Login, base...)
	e.POST("/logout", h.Logout, signedIn...)

	e.GET("/dashboard", h.Index, signedIn...)
	e.GET("/dashboard/admin", h.Admin, admin...)
	e.GET("/dashboard/admin/events", h.stream, admin...)
	e.POST("/dashboard/admin/tasks", h.CreateTask, admin...)
	e.GET("/dashboard/employee", h.Employee, employee...)
	e.POST("/dashboard/employee/tasks/:id", h.UpdateTask, employee...)
	e.GET("/dashboard/employees", h.Employees, admin...)
	e.POST("/dashboard/employees", h.CreateEmployee, admin...)
	e.GET("/dashboard/profile", h.Profile, signedIn...)
	e.POST("/dashboard/profile", h.UpdateProfile, signedIn...)
	e.GET("/dashboard/projects", h.Projects, signedIn...)
	e.POST("/dashboard/projects", h.CreateProject, signedIn...)
	e.POST("/dashboard/projects/:id", h.UpdateProject, signedIn...)

	e.RouteNotFound("/*", h.NotFound)
}

// ErrorPage renders errors raised outside the JSON API.
func (h *Handler) ErrorPage(c echo.Context, code int, msg string) error {
	if code == http.StatusNotFound {
		return renderPublic(c, code, views.PublicShell{Title: "Not found"}, views.NotFound())
	}
	if code >= http.StatusInternalServerError {
		msg = "Something went wrong. Please try again."
	}
	return renderPublic(c, code, views.PublicShell{Title: http.StatusText(code)}, views.Error(code, msg))
}

func (h *Handler) NotFound(c echo.Context) error {
	h.log.Debug().Str("path", c.Request().URL.Path).Msg("page not found")
	return renderPublic(c, http.StatusNotFound, views.PublicShell{Title: "Not found"}, views.NotFound())
}

// loading holds the request while the session's role settles. GET pages
// reload themselves; a form post cannot be replayed by a refresh, so it goes
// back to the page that submitted it.
func (h *Handler) loading(c echo.Context) error {
	shell := views.PublicShell{Title: "Loading", RefreshSeconds: 1}
	if m := c.Request().Method; m != http.MethodGet && m != http.MethodHead {
		shell.RefreshURL = refreshTarget(c.Request())
	}
	return renderPublic(c, http.StatusOK, shell, views.Loading("Loading..."))
}

// refreshTarget returns the same-origin Referer path of r, or /dashboard.
func refreshTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" {
		return "/dashboard"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/dashboard"
	}
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/dashboard"
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

// --- rendering ---

func csrfToken(c echo.Context) string {
	t, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return t
}

func pendingToast(c echo.Context) *flash.Notice {
	if n, ok := flash.ReadAndClear(c.Response(), c.Request()); ok {
		return &n
	}
	return nil
}

// page renders body inside the sidebar shell. toast overrides any pending
// flash notice.
func (h *Handler) page(c echo.Context, status int, title, active string, body templ.Component, toast *flash.Notice) error {
	st := middleware.StateFrom(c)
	if toast == nil {
		toast = pendingToast(c)
	}
	id, _ := st.Identity()
	shell := views.Shell{
		Title: title,
		Email: id.Email,
		Nav:   views.Nav(st.Role(), active),
		Toast: toast,
		CSRF:  csrfToken(c),
	}
	return render(c, status, views.Layout(shell), body)
}

func renderPublic(c echo.Context, status int, shell views.PublicShell, body templ.Component) error {
	if shell.Toast == nil {
		shell.Toast = pendingToast(c)
	}
	return render(c, status, views.Public(shell), body)
}

func render(c echo.Context, status int, layout, body templ.Component) error {
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(c.Request().Context(), body), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// fragment renders a partial without any shell.
func fragment(c echo.Context, body templ.Component) error {
	var buf bytes.Buffer
	if err := body.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// redirect sends the browser to path after storing notice for the next page.
func redirect(c echo.Context, path string, notice flash.Notice) error {
	flash.Write(c.Response(), notice)
	return c.Redirect(http.StatusSeeOther, path)
}

// describe turns a service error into toast copy and logs the unexpected ones.
func (h *Handler) describe(err error, action string) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, domain.ErrIdentityExists):
		return "An account with this email already exists."
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return err.Error()
	}
	h.log.Error().Err(err).Str("action", action).Msg("page action failed")
	return "Failed to " + action + "."
}

// statusOf picks the response status a failed page action renders with.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// validationMessage extracts the user-facing text of a c.Validate failure.
func validationMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
