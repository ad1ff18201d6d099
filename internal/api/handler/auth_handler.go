package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/web/sessioncookie"
)

type AuthHandler struct {
	authService  ports.AuthService
	sessions     middleware.SessionSource
	cookieSecure bool
}

func NewAuthHandler(authService ports.AuthService, sessions middleware.SessionSource, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookieSecure: cookieSecure}
}

// Login authenticates an identity and returns a session token. The token is
// also set as the session cookie.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, sess, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	sessioncookie.Write(c.Response(), token, sess.ExpiresAt, h.cookieSecure)

	state, err := json.Marshal(h.sessions.Current(ctx, token))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		Session: sessionResponse{
			ID:        sess.ID,
			IssuedAt:  sess.IssuedAt,
			ExpiresAt: sess.ExpiresAt,
		},
		State: state,
	})
}

// Logout revokes the current session.
//
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, ok := middleware.StateFrom(c).Session()
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	// On failure the session and its cookie stay as they were.
	if err := h.authService.SignOut(c.Request().Context(), &sess); err != nil {
		return err
	}
	sessioncookie.Clear(c.Response(), h.cookieSecure)
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's session state. It never fails: a signed-out
// caller gets {"loading":false,"identity":null,"role":"none"}.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200   {object}  map[string]any
// @Router       /api/v1/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.StateFrom(c))
}
