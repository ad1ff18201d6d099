package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/core/ports"
)

// ProfileHandler serves the caller's own profile and the employee roster.
type ProfileHandler struct {
	profiles ports.ProfileService
	auth     ports.AuthService
}

func NewProfileHandler(profiles ports.ProfileService, auth ports.AuthService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, auth: auth}
}

// Me handles GET /api/v1/profiles/me.
//
// @Summary      Own profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/profiles/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	view, err := h.profiles.Me(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileViewResponse(view))
}

// UpdateMe handles PATCH /api/v1/profiles/me. Only full_name is editable.
//
// @Summary      Update own full name
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New name"
// @Success      200   {object}  profileResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/profiles/me [patch]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.profiles.UpdateFullName(c.Request().Context(), actor, req.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileViewResponse(view))
}

// ListEmployees handles GET /api/v1/employees, oldest first.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[profileResponse]
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/employees [get]
func (h *ProfileHandler) ListEmployees(c echo.Context) error {
	employees, err := h.profiles.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]profileResponse, 0, len(employees))
	for _, p := range employees {
		out = append(out, toEmployeeResponse(p))
	}
	return c.JSON(http.StatusOK, newList(out))
}

// CreateEmployee handles POST /api/v1/employees. The new identity signs up
// with the employee role; the admin's own session is untouched.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  profileResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/employees [post]
func (h *ProfileHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.auth.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	resp := toEmployeeResponse(p)
	resp.Email = req.Email
	return c.JSON(http.StatusCreated, resp)
}
