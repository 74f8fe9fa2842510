package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"teamboard/internal/service"
)

// MessageHandler exposes direct messaging.
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// SendMessageRequest sends a direct message.
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required,gt=0"`
	Body        string `json:"body" validate:"required,notblank,max=5000"`
}

// Send godoc
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.service.Send(c.Request().Context(), identity.UserID, req.RecipientID, req.Body)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Conversation godoc
// @Summary Conversation with a user
// @Description Messages exchanged with the given user, oldest first.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Success 200 {array} model.Message
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/conversations/{userId} [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	otherID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	messages, err := h.service.Conversation(c.Request().Context(), identity.UserID, otherID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// UnreadCount godoc
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	n, err := h.service.UnreadCount(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CountResponse{Count: n})
}

// MarkRead godoc
// @Summary Mark a received message read
// @Tags messages
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), identity.UserID, id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
