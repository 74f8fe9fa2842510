package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"teamboard/internal/service"
)

// TeamHandler exposes team endpoints.
type TeamHandler struct {
	service service.TeamService
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(svc service.TeamService) *TeamHandler {
	return &TeamHandler{service: svc}
}

// TeamRequest creates or replaces a team.
type TeamRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"max=2000"`
	LeadID      *uint  `json:"lead_id" validate:"omitempty,gt=0"`
}

// AddMemberRequest adds a user to a team.
type AddMemberRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

func (r TeamRequest) input() service.TeamInput {
	return service.TeamInput{Name: r.Name, Description: r.Description, LeadID: r.LeadID}
}

// List godoc
// @Summary List teams
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Team
// @Failure 401 {object} errors.ErrorResponse
// @Router /teams [get]
func (h *TeamHandler) List(c echo.Context) error {
	teams, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, teams)
}

// Get godoc
// @Summary Get team with members
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} model.Team
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	team, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, team)
}

// Create godoc
// @Summary Create team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TeamRequest true "Team"
// @Success 201 {object} model.Team
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /teams [post]
func (h *TeamHandler) Create(c echo.Context) error {
	var req TeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	team, err := h.service.Create(c.Request().Context(), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, team)
}

// Update godoc
// @Summary Update team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body TeamRequest true "Team"
// @Success 200 {object} model.Team
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /teams/{id} [put]
func (h *TeamHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req TeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	team, err := h.service.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, team)
}

// Delete godoc
// @Summary Delete team
// @Tags teams
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMember godoc
// @Summary Add team member
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body AddMemberRequest true "Member"
// @Success 200 {object} model.Team
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req AddMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	team, err := h.service.AddMember(c.Request().Context(), id, req.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, team)
}

// RemoveMember godoc
// @Summary Remove team member
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} model.Team
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /teams/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	team, err := h.service.RemoveMember(c.Request().Context(), id, userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, team)
}
