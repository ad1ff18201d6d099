package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/views"
)

type employeeForm struct {
	FullName string `form:"full_name" validate:"required,max=120"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type profileForm struct {
	FullName string `form:"full_name" validate:"required,max=120"`
}

func (h *Handler) Employees(c echo.Context) error {
	return h.employeesPage(c, http.StatusOK, views.EmployeeForm{}, nil)
}

// CreateEmployee signs up a new employee account. The admin stays signed in
// as themselves.
func (h *Handler) CreateEmployee(c echo.Context) error {
	var form employeeForm
	if err := c.Bind(&form); err != nil {
		return h.employeesPage(c, http.StatusBadRequest, views.EmployeeForm{Error: "Invalid form submission."}, nil)
	}
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	values := views.EmployeeForm{FullName: form.FullName, Email: form.Email}
	if err := c.Validate(&form); err != nil {
		values.Error = validationMessage(err)
		return h.employeesPage(c, http.StatusUnprocessableEntity, values, nil)
	}

	profile, err := h.auth.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
	})
	if err != nil {
		values.Error = h.describe(err, "create employee")
		toast := flash.Failure("Error", values.Error)
		return h.employeesPage(c, statusOf(err), values, &toast)
	}
	h.log.Info().Str("profile_id", profile.ID).Msg("employee created")
	return redirect(c, "/dashboard/employees", flash.Success("Success", "Employee created successfully"))
}

func (h *Handler) employeesPage(c echo.Context, status int, form views.EmployeeForm, toast *flash.Notice) error {
	data := views.EmployeesData{Form: form, CSRF: csrfToken(c)}
	employees, err := h.profiles.ListEmployees(c.Request().Context())
	if err != nil && toast == nil {
		n := flash.Failure("Error", h.describe(err, "load employees"))
		toast = &n
	}
	data.Employees = views.EmployeeRows(employees)
	return h.page(c, status, "Employees", "/dashboard/employees", views.Employees(data), toast)
}

func (h *Handler) Profile(c echo.Context) error {
	return h.profilePage(c, http.StatusOK, "", "", nil)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return h.profilePage(c, http.StatusBadRequest, "", "Invalid form submission.", nil)
	}
	form.FullName = strings.TrimSpace(form.FullName)
	if err := c.Validate(&form); err != nil {
		return h.profilePage(c, http.StatusUnprocessableEntity, form.FullName, validationMessage(err), nil)
	}

	actor := middleware.StateFrom(c).Actor()
	if _, err := h.profiles.UpdateFullName(c.Request().Context(), actor, form.FullName); err != nil {
		msg := h.describe(err, "update profile")
		toast := flash.Failure("Error", msg)
		return h.profilePage(c, statusOf(err), form.FullName, msg, &toast)
	}
	return redirect(c, "/dashboard/profile", flash.Success("Success", "Profile updated successfully"))
}

// profilePage renders the caller's profile. A non-empty fullName replaces the
// stored one so a rejected edit is shown back.
func (h *Handler) profilePage(c echo.Context, status int, fullName, formErr string, toast *flash.Notice) error {
	st := middleware.StateFrom(c)
	data := views.ProfileData{Error: formErr, CSRF: csrfToken(c)}
	if id, ok := st.Identity(); ok {
		data.Email = id.Email
	}

	view, err := h.profiles.Me(c.Request().Context(), st.Actor())
	switch {
	case err != nil && toast == nil:
		n := flash.Failure("Error", h.describe(err, "load profile"))
		toast = &n
	case err == nil:
		data.Email = view.Email
		data.FullName = view.FullName
		data.Role = view.Role.String()
		data.Joined = views.FormatDate(view.CreatedAt)
	}
	if fullName != "" {
		data.FullName = fullName
	}
	return h.page(c, status, "Profile", "/dashboard/profile", views.Profile(data), toast)
}
