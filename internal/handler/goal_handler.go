package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"teamboard/internal/model"
	"teamboard/internal/service"
)

// GoalHandler exposes goal endpoints.
type GoalHandler struct {
	service service.GoalService
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(svc service.GoalService) *GoalHandler {
	return &GoalHandler{service: svc}
}

// CreateGoalRequest creates a goal in a project.
type CreateGoalRequest struct {
	ProjectID uint `json:"project_id" validate:"required,gt=0"`
	UpdateGoalRequest
}

// UpdateGoalRequest replaces a goal's fields.
type UpdateGoalRequest struct {
	Title        string          `json:"title" validate:"required,notblank,max=255"`
	Description  string          `json:"description" validate:"max=5000"`
	TargetValue  decimal.Decimal `json:"target_value" swaggertype:"string" example:"100"`
	CurrentValue decimal.Decimal `json:"current_value" swaggertype:"string" example:"25"`
	Unit         string          `json:"unit" validate:"max=50"`
	DueDate      *time.Time      `json:"due_date"`
}

// GoalProgressRequest records a goal's current value.
type GoalProgressRequest struct {
	CurrentValue decimal.Decimal `json:"current_value" swaggertype:"string" example:"40"`
}

// GoalResponse is a goal with its derived progress.
type GoalResponse struct {
	model.Goal
	Progress decimal.Decimal `json:"progress" swaggertype:"string" example:"40.00"`
}

func newGoalResponse(goal *model.Goal) GoalResponse {
	return GoalResponse{Goal: *goal, Progress: goal.Progress()}
}

func (r UpdateGoalRequest) input(projectID uint) service.GoalInput {
	return service.GoalInput{
		ProjectID:    projectID,
		Title:        r.Title,
		Description:  r.Description,
		TargetValue:  r.TargetValue,
		CurrentValue: r.CurrentValue,
		Unit:         r.Unit,
		DueDate:      r.DueDate,
	}
}

// ListByProject godoc
// @Summary List goals of a project
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} GoalResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/goals [get]
func (h *GoalHandler) ListByProject(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	goals, err := h.service.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		return respondError(err)
	}

	resp := make([]GoalResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, newGoalResponse(&goals[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "Goal"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c echo.Context) error {
	var req CreateGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	goal, err := h.service.Create(c.Request().Context(), req.input(req.ProjectID))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, newGoalResponse(goal))
}

// Update godoc
// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body UpdateGoalRequest true "Goal"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateGoalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	goal, err := h.service.Update(c.Request().Context(), id, req.input(0))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newGoalResponse(goal))
}

// UpdateProgress godoc
// @Summary Record goal progress
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Param request body GoalProgressRequest true "Current value"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id}/progress [patch]
func (h *GoalHandler) UpdateProgress(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req GoalProgressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	goal, err := h.service.UpdateProgress(c.Request().Context(), id, req.CurrentValue)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newGoalResponse(goal))
}

// Delete godoc
// @Summary Delete goal
// @Tags goals
// @Security BearerAuth
// @Param id path int true "Goal ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
