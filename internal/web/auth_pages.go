package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/sessioncookie"
	"github.com/doable/dashboard/internal/web/views"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (h *Handler) Landing(c echo.Context) error {
	signedIn := middleware.StateFrom(c).Authenticated()
	return renderPublic(c, http.StatusOK, views.PublicShell{Title: "Doable"}, views.Landing(signedIn))
}

// LoginForm shows the sign-in form, or sends a signed-in user to the dashboard.
func (h *Handler) LoginForm(c echo.Context) error {
	if middleware.StateFrom(c).Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return h.loginPage(c, http.StatusOK, views.LoginData{})
}

func (h *Handler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginPage(c, http.StatusBadRequest, views.LoginData{Error: "Invalid form submission."})
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := c.Validate(&form); err != nil {
		return h.loginPage(c, http.StatusUnprocessableEntity, views.LoginData{Email: form.Email, Error: validationMessage(err)})
	}

	token, sess, err := h.auth.SignIn(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failed").Inc()
		msg := "Invalid email or password."
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			msg = h.describe(err, "sign in")
		}
		return h.loginPage(c, http.StatusUnauthorized, views.LoginData{Email: form.Email, Error: msg})
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	sessioncookie.Write(c.Response(), token, sess.ExpiresAt, h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout revokes the session. On failure the cookie is kept and the user
// stays signed in.
func (h *Handler) Logout(c echo.Context) error {
	sess, ok := middleware.StateFrom(c).Session()
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err := h.auth.SignOut(c.Request().Context(), &sess); err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID).Msg("sign out failed")
		return redirect(c, "/dashboard", flash.Failure("Error", "Failed to log out"))
	}
	sessioncookie.Clear(c.Response(), h.cookieSecure)
	return redirect(c, "/login", flash.Success("Success", "Logged out successfully"))
}

func (h *Handler) loginPage(c echo.Context, status int, data views.LoginData) error {
	data.CSRF = csrfToken(c)
	return renderPublic(c, status, views.PublicShell{Title: "Sign in"}, views.Login(data))
}
