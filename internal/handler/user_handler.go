package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"teamboard/internal/auth"
	"teamboard/internal/model"
	"teamboard/internal/repository"
	"teamboard/internal/service"
)

// UserHandler exposes user endpoints.
type UserHandler struct {
	service service.UserService
}

// NewUserHandler constructs a handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// MeResponse describes the caller.
type MeResponse struct {
	Identity auth.Identity `json:"identity"`
	User     *model.User   `json:"user"`
}

// UpdateProfileRequest changes the caller's own name or password.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// SetRoleRequest changes a user's role.
type SetRoleRequest struct {
	Role auth.Role `json:"role" validate:"required,oneof=admin member teamlead"`
}

// SetActiveRequest activates or deactivates a user.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MeResponse{Identity: identity, User: user})
}

// UpdateMe godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), identity.UserID, service.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param approved query bool false "Filter by approval"
// @Param active query bool false "Filter by active flag"
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	approved, err := queryBool(c, "approved")
	if err != nil {
		return err
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context(), repository.UserFilter{Approved: approved, Active: active})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Approve godoc
// @Summary Approve a registered user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/approve [patch]
func (h *UserHandler) Approve(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.service.Approve(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SetRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/role [patch]
func (h *UserHandler) SetRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req SetRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.service.SetRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SetActive godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body SetActiveRequest true "Active flag"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/active [patch]
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req SetActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.service.SetActive(c.Request().Context(), id, *req.Active)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}
