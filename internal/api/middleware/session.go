package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/core/session"
	"github.com/doable/dashboard/internal/web/sessioncookie"
)

const (
	stateKey = "session_state"
	tokenKey = "session_token"
)

// SessionSource answers the current session state for a token.
type SessionSource interface {
	Current(ctx context.Context, token string) session.State
}

// Session resolves the caller's session once per request and stores the
// immutable state in the echo context. The token comes from a Bearer
// Authorization header, falling back to the session cookie.
func Session(src SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := requestToken(c)
			c.Set(tokenKey, token)
			c.Set(stateKey, src.Current(c.Request().Context(), token))
			return next(c)
		}
	}
}

// StateFrom returns the state stored by Session, or Unauthenticated.
func StateFrom(c echo.Context) session.State {
	if s, ok := c.Get(stateKey).(session.State); ok {
		return s
	}
	return session.Unauthenticated()
}

// TokenFrom returns the raw session token of the request, if any.
func TokenFrom(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

func requestToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, _ := sessioncookie.Read(c.Request())
	return token
}
