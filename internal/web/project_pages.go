package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/views"
)

type projectForm struct {
	Name        string `form:"name" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Status      string `form:"status" validate:"max=60"`
	ClientName  string `form:"client_name" validate:"required"`
	ClientEmail string `form:"client_email" validate:"required,email"`
	Budget      string `form:"budget" validate:"required,numeric"`
	Deadline    string `form:"deadline" validate:"required,datetime=2006-01-02"`
}

func (f projectForm) values(editID string) views.ProjectForm {
	return views.ProjectForm{
		EditID:      editID,
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		ClientName:  f.ClientName,
		ClientEmail: f.ClientEmail,
		Budget:      f.Budget,
		Deadline:    f.Deadline,
	}
}

func (f *projectForm) trim() {
	for _, s := range []*string{&f.Name, &f.Description, &f.Status, &f.ClientName, &f.ClientEmail, &f.Budget, &f.Deadline} {
		*s = strings.TrimSpace(*s)
	}
}

func (f projectForm) input() (ports.ProjectInput, error) {
	budget, err := strconv.ParseFloat(f.Budget, 64)
	if err != nil {
		return ports.ProjectInput{}, domain.ErrInvalidInput
	}
	deadline, err := time.Parse(dateLayout, f.Deadline)
	if err != nil {
		return ports.ProjectInput{}, domain.ErrInvalidInput
	}
	return ports.ProjectInput{
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		ClientName:  f.ClientName,
		ClientEmail: f.ClientEmail,
		Budget:      budget,
		Deadline:    deadline,
	}, nil
}

// Projects lists projects. ?edit=<id> pre-fills the form with that project.
func (h *Handler) Projects(c echo.Context) error {
	form := views.ProjectForm{Status: domain.DefaultProjectStatus}
	var toast *flash.Notice
	if id := c.QueryParam("edit"); id != "" {
		p, err := h.projects.Get(c.Request().Context(), id)
		if err != nil {
			n := flash.Failure("Error", h.describe(err, "load project"))
			toast = &n
		} else {
			form = views.ProjectFormFrom(p)
		}
	}
	return h.projectsPage(c, http.StatusOK, form, toast)
}

func (h *Handler) CreateProject(c echo.Context) error {
	return h.saveProject(c, "")
}

func (h *Handler) UpdateProject(c echo.Context) error {
	return h.saveProject(c, c.Param("id"))
}

// saveProject creates a project, or updates editID when set.
func (h *Handler) saveProject(c echo.Context, editID string) error {
	var form projectForm
	if err := c.Bind(&form); err != nil {
		return h.projectsPage(c, http.StatusBadRequest, views.ProjectForm{EditID: editID, Error: "Invalid form submission."}, nil)
	}
	form.trim()
	values := form.values(editID)
	if err := c.Validate(&form); err != nil {
		values.Error = validationMessage(err)
		return h.projectsPage(c, http.StatusUnprocessableEntity, values, nil)
	}
	in, err := form.input()
	if err != nil {
		values.Error = "Budget must be a number and deadline a date."
		return h.projectsPage(c, http.StatusUnprocessableEntity, values, nil)
	}

	ctx := c.Request().Context()
	action, done := "create project", "Project created successfully"
	if editID != "" {
		action, done = "update project", "Project updated successfully"
		_, err = h.projects.Update(ctx, editID, in)
	} else {
		_, err = h.projects.Create(ctx, in)
	}
	if err != nil {
		values.Error = h.describe(err, action)
		toast := flash.Failure("Error", values.Error)
		return h.projectsPage(c, statusOf(err), values, &toast)
	}
	return redirect(c, "/dashboard/projects", flash.Success("Success", done))
}

func (h *Handler) projectsPage(c echo.Context, status int, form views.ProjectForm, toast *flash.Notice) error {
	data := views.ProjectsData{Form: form, CSRF: csrfToken(c)}
	projects, err := h.projects.List(c.Request().Context())
	if err != nil && toast == nil {
		n := flash.Failure("Error", h.describe(err, "load projects"))
		toast = &n
	}
	data.Projects = views.ProjectRows(projects)
	return h.page(c, status, "Projects", "/dashboard/projects", views.Projects(data), toast)
}
