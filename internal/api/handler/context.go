package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
)

// actorFrom returns the caller resolved by the Session middleware, or a 401
// when the request carries no identity.
func actorFrom(c echo.Context) (domain.Actor, error) {
	actor := middleware.StateFrom(c).Actor()
	if actor.ID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return actor, nil
}
