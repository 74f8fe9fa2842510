package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/internal/service"
)

// ProjectHandler exposes project endpoints.
type ProjectHandler struct {
	service service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// ProjectRequest creates or replaces a project.
type ProjectRequest struct {
	Name        string              `json:"name" validate:"required,notblank,max=255"`
	Description string              `json:"description" validate:"max=5000"`
	Status      model.ProjectStatus `json:"status" validate:"omitempty,oneof=planned active on_hold completed archived"`
	TeamID      *uint               `json:"team_id" validate:"omitempty,gt=0"`
	StartDate   *time.Time          `json:"start_date"`
	DueDate     *time.Time          `json:"due_date"`
	Budget      decimal.Decimal     `json:"budget" swaggertype:"string" example:"1500.00"`
}

func (r ProjectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		TeamID:      r.TeamID,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		Budget:      r.Budget,
	}
}

// List godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Project status"
// @Param team_id query int false "Team ID"
// @Success 200 {array} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	teamID, err := queryID(c, "team_id")
	if err != nil {
		return err
	}
	projects, err := h.service.List(c.Request().Context(), repository.ProjectFilter{
		Status: model.ProjectStatus(c.QueryParam("status")),
		TeamID: teamID,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

// Get godoc
// @Summary Get project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	project, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, project)
}

// Create godoc
// @Summary Create project
// @Description The caller becomes the owner.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectRequest true "Project"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	project, err := h.service.Create(c.Request().Context(), identity.UserID, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, project)
}

// Update godoc
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body ProjectRequest true "Project"
// @Success 200 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	project, err := h.service.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, project)
}

// Delete godoc
// @Summary Delete project
// @Tags projects
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
