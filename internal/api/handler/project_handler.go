package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /api/v1/projects.
//
// @Summary      List projects, newest first
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[projectResponse]
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return c.JSON(http.StatusOK, newList(out))
}

// Get handles GET /api/v1/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Create handles POST /api/v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project details"
// @Success      201   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toProjectInput(req)
	if err != nil {
		return err
	}
	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProjectResponse(p))
}

// Update handles PUT /api/v1/projects/:id.
//
// @Summary      Replace a project's editable fields
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      projectRequest  true  "Project details"
// @Success      200   {object}  projectResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toProjectInput(req)
	if err != nil {
		return err
	}
	p, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}
