package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/api/middleware"
	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/web/flash"
	"github.com/doable/dashboard/internal/web/views"
)

const dateLayout = "2006-01-02"

type taskForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
	ProjectID   string `form:"project_id"`
	AssignedTo  string `form:"assigned_to"`
	DueDate     string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type progressForm struct {
	Status  string `form:"status" validate:"required,oneof=pending processing completed"`
	Remarks string `form:"remarks" validate:"max=2000"`
}

// Index sends a settled session to its role's dashboard. A session without a
// role keeps seeing the placeholder.
func (h *Handler) Index(c echo.Context) error {
	switch middleware.StateFrom(c).Role() {
	case domain.RoleAdmin:
		return c.Redirect(http.StatusSeeOther, "/dashboard/admin")
	case domain.RoleEmployee:
		return c.Redirect(http.StatusSeeOther, "/dashboard/employee")
	}
	return renderPublic(c, http.StatusOK, views.PublicShell{Title: "Dashboard"}, views.Loading("Loading dashboard..."))
}

// Admin renders the admin dashboard, or one of its live fragments when
// ?fragment=stats|tasks is given.
func (h *Handler) Admin(c echo.Context) error {
	ctx := c.Request().Context()
	actor := middleware.StateFrom(c).Actor()

	switch c.QueryParam("fragment") {
	case "":
	case "stats":
		stats, err := h.dashboard.Stats(ctx)
		if err != nil {
			return err
		}
		return fragment(c, views.StatCards(stats.Cards))
	case "tasks":
		tasks, err := h.dashboard.RecentTasks(ctx, actor)
		if err != nil {
			return err
		}
		return fragment(c, views.TaskTable(views.TaskRows(tasks)))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown fragment")
	}

	return h.adminPage(c, http.StatusOK, views.TaskForm{}, nil)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var form taskForm
	if err := c.Bind(&form); err != nil {
		return h.adminPage(c, http.StatusBadRequest, views.TaskForm{Error: "Invalid form submission."}, nil)
	}
	values := views.TaskForm{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		ProjectID:   strings.TrimSpace(form.ProjectID),
		AssignedTo:  strings.TrimSpace(form.AssignedTo),
		DueDate:     strings.TrimSpace(form.DueDate),
	}
	if err := c.Validate(&form); err != nil {
		values.Error = validationMessage(err)
		return h.adminPage(c, http.StatusUnprocessableEntity, values, nil)
	}

	in := ports.CreateTaskInput{
		Title:       values.Title,
		Description: values.Description,
		ProjectID:   values.ProjectID,
		AssignedTo:  values.AssignedTo,
	}
	if values.DueDate != "" {
		due, err := time.Parse(dateLayout, values.DueDate)
		if err != nil {
			values.Error = "Due date must be YYYY-MM-DD."
			return h.adminPage(c, http.StatusUnprocessableEntity, values, nil)
		}
		in.DueDate = &due
	}

	task, err := h.tasks.Create(c.Request().Context(), middleware.StateFrom(c).Actor(), in)
	if err != nil {
		msg := h.describe(err, "create task")
		values.Error = msg
		toast := flash.Failure("Error", msg)
		return h.adminPage(c, statusOf(err), values, &toast)
	}
	metrics.TasksCreatedTotal.Inc()
	h.log.Info().Str("task_id", task.ID).Msg("task created")
	return redirect(c, "/dashboard/admin", flash.Success("Success", "Task created successfully"))
}

func (h *Handler) Employee(c echo.Context) error {
	actor := middleware.StateFrom(c).Actor()
	data := views.EmployeeData{Statuses: statusOptions(), CSRF: csrfToken(c)}

	var toast *flash.Notice
	tasks, err := h.tasks.List(c.Request().Context(), actor, ports.ListTasksInput{})
	if err != nil {
		n := flash.Failure("Error", h.describe(err, "load tasks"))
		toast = &n
	}
	data.Tasks = views.TaskRows(tasks)
	return h.page(c, http.StatusOK, "My Tasks", "/dashboard", views.Employee(data), toast)
}

// UpdateTask applies an employee's progress update and returns to their list.
func (h *Handler) UpdateTask(c echo.Context) error {
	var form progressForm
	if err := c.Bind(&form); err != nil {
		return redirect(c, "/dashboard/employee", flash.Failure("Error", "Invalid form submission."))
	}
	if err := c.Validate(&form); err != nil {
		return redirect(c, "/dashboard/employee", flash.Failure("Error", validationMessage(err)))
	}

	task, err := h.tasks.UpdateProgress(c.Request().Context(), middleware.StateFrom(c).Actor(), ports.UpdateTaskInput{
		ID:      c.Param("id"),
		Status:  form.Status,
		Remarks: strings.TrimSpace(form.Remarks),
	})
	if err != nil {
		return redirect(c, "/dashboard/employee", flash.Failure("Error", h.describe(err, "update task")))
	}
	metrics.TaskProgressTotal.WithLabelValues(string(task.Status)).Inc()
	return redirect(c, "/dashboard/employee", flash.Success("Success", "Task updated successfully"))
}

// adminPage renders the admin dashboard with form pre-filled. A load failure
// still renders the page, with a toast.
func (h *Handler) adminPage(c echo.Context, status int, form views.TaskForm, toast *flash.Notice) error {
	data, err := h.adminData(c.Request().Context(), middleware.StateFrom(c).Actor(), form)
	if err != nil && toast == nil {
		n := flash.Failure("Error", h.describe(err, "load dashboard"))
		toast = &n
	}
	data.Form = form
	data.CSRF = csrfToken(c)
	return h.page(c, status, "Admin Dashboard", "/dashboard", views.Admin(data), toast)
}

func (h *Handler) adminData(ctx context.Context, actor domain.Actor, form views.TaskForm) (views.AdminData, error) {
	var (
		stats     *ports.DashboardStats
		tasks     []ports.TaskDetail
		projects  []ports.ProjectOption
		employees []*domain.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = h.dashboard.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = h.dashboard.RecentTasks(gctx, actor)
		return err
	})
	g.Go(func() (err error) {
		projects, err = h.projects.Options(gctx)
		return err
	})
	g.Go(func() (err error) {
		employees, err = h.profiles.ListEmployees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return views.AdminData{}, err
	}

	data := views.AdminData{
		Tasks:     views.TaskRows(tasks),
		Projects:  make([]views.Option, 0, len(projects)),
		Employees: make([]views.Option, 0, len(employees)),
	}
	if stats != nil {
		data.Cards = stats.Cards
	}
	for _, p := range projects {
		data.Projects = append(data.Projects, views.Option{Value: p.ID, Label: p.Name, Selected: p.ID == form.ProjectID})
	}
	for _, e := range employees {
		data.Employees = append(data.Employees, views.Option{
			Value:    e.ID,
			Label:    e.DisplayName("Unnamed Employee"),
			Selected: e.ID == form.AssignedTo,
		})
	}
	return data, nil
}

func statusOptions() []views.Option {
	opts := make([]views.Option, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		opts = append(opts, views.Option{Value: string(s), Label: views.StatusLabel(s)})
	}
	return opts
}
