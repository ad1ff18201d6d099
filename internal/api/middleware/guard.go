package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/session"
)

// APIGuard admits requests whose session passes session.Decide for roles.
// With no roles any authenticated session is admitted.
//
//	loading         → 503 with Retry-After: 1
//	unauthenticated → 401
//	denied          → 403
func APIGuard(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			outcome := session.Decide(StateFrom(c), roles...)
			metrics.GuardOutcomesTotal.WithLabelValues("api", outcome.String()).Inc()

			switch outcome {
			case session.OutcomeLoading:
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still loading")
			case session.OutcomeUnauthenticated:
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			case session.OutcomeDenied:
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

// Guard is the page counterpart of APIGuard. A loading session renders
// loading (which must neither show protected content nor redirect); an
// unauthenticated one is sent to /login and a denied one to /dashboard.
func Guard(loading echo.HandlerFunc, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			outcome := session.Decide(StateFrom(c), roles...)
			metrics.GuardOutcomesTotal.WithLabelValues("web", outcome.String()).Inc()

			switch outcome {
			case session.OutcomeLoading:
				return loading(c)
			case session.OutcomeUnauthenticated:
				return c.Redirect(http.StatusSeeOther, "/login")
			case session.OutcomeDenied:
				return c.Redirect(http.StatusSeeOther, "/dashboard")
			}
			return next(c)
		}
	}
}
