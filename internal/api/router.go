package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/doable/dashboard/internal/api/docs"
	"github.com/doable/dashboard/internal/api/handler"
	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/infrastructure/http/handlers"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Log          zerolog.Logger
	Sessions     middleware.SessionSource
	Auth         ports.AuthService
	Tasks        ports.TaskService
	Projects     ports.ProjectService
	Profiles     ports.ProfileService
	Dashboard    ports.DashboardService
	Hub          handler.Listener
	Checks       map[string]handlers.Check
	CookieSecure bool
	// ErrorPage renders non-API errors as HTML. Optional.
	ErrorPage PageRenderer
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with the probe, metrics,
// docs and JSON API routes registered. Page routes are added by the web
// package on the returned instance.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ErrorPage)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "doable",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/metrics", "/api/v1/realtime", "/dashboard/admin/events":
				return true
			}
			return false
		},
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.CookieSecure)
	taskHandler := handler.NewTaskHandler(d.Tasks, d.Dashboard)
	projectHandler := handler.NewProjectHandler(d.Projects)
	profileHandler := handler.NewProfileHandler(d.Profiles, d.Auth)
	statsHandler := handler.NewStatsHandler(d.Dashboard)
	realtimeHandler := handler.NewRealtimeHandler(d.Hub)

	anyRole := middleware.APIGuard(domain.RoleAdmin, domain.RoleEmployee)
	adminOnly := middleware.APIGuard(domain.RoleAdmin)
	signedIn := middleware.APIGuard()

	v1 := e.Group("/api/v1", middleware.Session(d.Sessions))

	// --- Auth routes ---
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, signedIn)
	v1.GET("/session", authHandler.Session)

	// --- Task routes ---
	v1.GET("/tasks", taskHandler.List, anyRole)
	v1.POST("/tasks", taskHandler.Create, adminOnly)
	v1.PATCH("/tasks/:id", taskHandler.UpdateProgress, anyRole)

	// --- Project routes ---
	projects := v1.Group("/projects", signedIn)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)

	// --- Profile routes ---
	v1.GET("/profiles/me", profileHandler.Me, signedIn)
	v1.PATCH("/profiles/me", profileHandler.UpdateMe, signedIn)
	v1.GET("/employees", profileHandler.ListEmployees, adminOnly)
	v1.POST("/employees", profileHandler.CreateEmployee, adminOnly)

	// --- Dashboard routes ---
	v1.GET("/stats", statsHandler.Stats, adminOnly)
	v1.GET("/realtime", realtimeHandler.Stream, signedIn)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
