package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// When a page renderer is set, requests outside /api get an HTML error page
// instead of JSON.
func NewHTTPErrorHandler(log zerolog.Logger, page PageRenderer) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if page != nil && !strings.HasPrefix(c.Request().URL.Path, "/api/") {
			if perr := page(c, code, msg); perr != nil {
				log.Error().Err(perr).Msg("render error page")
			}
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// PageRenderer writes an HTML error page.
type PageRenderer func(c echo.Context, code int, msg string) error

// StatusFor maps a domain error to its HTTP status. ok is false for errors
// the domain does not know about.
func StatusFor(err error) (code int, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrSessionRevoked):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusConflict, true
	}
	return 0, false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, guard rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, ok := StatusFor(err); ok {
		if code == http.StatusUnauthorized {
			return code, "invalid credentials"
		}
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
