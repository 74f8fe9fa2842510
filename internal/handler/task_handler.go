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

// TaskHandler exposes task endpoints.
type TaskHandler struct {
	service service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// CreateTaskRequest creates a task in a project.
type CreateTaskRequest struct {
	ProjectID uint `json:"project_id" validate:"required,gt=0"`
	UpdateTaskRequest
}

// UpdateTaskRequest replaces a task's fields.
type UpdateTaskRequest struct {
	Title         string             `json:"title" validate:"required,notblank,max=255"`
	Description   string             `json:"description" validate:"max=5000"`
	Priority      model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID    *uint              `json:"assignee_id" validate:"omitempty,gt=0"`
	DueDate       *time.Time         `json:"due_date"`
	EstimateHours decimal.Decimal    `json:"estimate_hours" swaggertype:"string" example:"4.5"`
}

// TaskStatusRequest moves a task to another status.
type TaskStatusRequest struct {
	Status model.TaskStatus `json:"status" validate:"required,oneof=todo in_progress review done"`
}

func (r UpdateTaskRequest) input(projectID uint) service.TaskInput {
	return service.TaskInput{
		ProjectID:     projectID,
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		AssigneeID:    r.AssigneeID,
		DueDate:       r.DueDate,
		EstimateHours: r.EstimateHours,
	}
}

// ListByProject godoc
// @Summary List tasks of a project
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param status query string false "Task status"
// @Param assignee_id query int false "Assignee ID"
// @Success 200 {array} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(c echo.Context) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	assigneeID, err := queryID(c, "assignee_id")
	if err != nil {
		return err
	}
	tasks, err := h.service.ListByProject(c.Request().Context(), projectID, repository.TaskFilter{
		AssigneeID: assigneeID,
		Status:     model.TaskStatus(c.QueryParam("status")),
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Mine godoc
// @Summary List tasks assigned to the caller
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks/mine [get]
func (h *TaskHandler) Mine(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.ListAssigned(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get godoc
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Create godoc
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	task, err := h.service.Create(c.Request().Context(), identity.UserID, req.input(req.ProjectID))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Update godoc
// @Summary Update task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Task"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	task, err := h.service.Update(c.Request().Context(), id, req.input(0))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateStatus godoc
// @Summary Change task status
// @Description Members may only move tasks assigned to them.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskStatusRequest true "Status"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req TaskStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	task, err := h.service.UpdateStatus(c.Request().Context(), identity, id, req.Status)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete task
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
