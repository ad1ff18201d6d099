package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	tasks     ports.TaskService
	dashboard ports.DashboardService
}

func NewTaskHandler(tasks ports.TaskService, dashboard ports.DashboardService) *TaskHandler {
	return &TaskHandler{tasks: tasks, dashboard: dashboard}
}

// List handles GET /api/v1/tasks. Admins see every task, employees their
// own assignments; both newest first. The unfiltered list is served from the
// dashboard query cache.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending | processing | completed"
// @Success      200     {object}  listResponse[taskResponse]
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var tasks []ports.TaskDetail
	if status := c.QueryParam("status"); status != "" {
		tasks, err = h.tasks.List(ctx, actor, ports.ListTasksInput{Status: status})
	} else {
		tasks, err = h.dashboard.RecentTasks(ctx, actor)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(toTaskResponses(tasks)))
}

// Create handles POST /api/v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toCreateTaskInput(req)
	if err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(ports.TaskDetail{Task: *task}))
}

// UpdateProgress handles PATCH /api/v1/tasks/:id.
//
// @Summary      Update task status and remarks
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Progress"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateProgress(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateProgress(c.Request().Context(), actor, ports.UpdateTaskInput{
		ID:      c.Param("id"),
		Status:  req.Status,
		Remarks: req.Remarks,
	})
	if err != nil {
		return err
	}
	metrics.TaskProgressTotal.WithLabelValues(string(task.Status)).Inc()
	return c.JSON(http.StatusOK, toTaskResponse(ports.TaskDetail{Task: *task}))
}
