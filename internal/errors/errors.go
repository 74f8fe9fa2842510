package errors

import (
	"errors"
	"net/http"

	"teamboard/internal/auth"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTeamNotFound is returned when a team is not found.
	ErrTeamNotFound = errors.New("team not found")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")
	// ErrGoalNotFound is returned when a goal is not found.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrNotificationNotFound is returned when a notification is not found or belongs to someone else.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrMessageNotFound is returned when a message is not found or the caller is not its recipient.
	ErrMessageNotFound = errors.New("message not found")

	// ErrUserAlreadyExists is returned when registering an email twice.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrTeamAlreadyExists is returned when a team name is taken.
	ErrTeamAlreadyExists = errors.New("team already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrAccountPending is returned when an unapproved user tries to sign in.
	ErrAccountPending = errors.New("account is pending approval")
	// ErrAccountInactive is returned when a deactivated user tries to sign in.
	ErrAccountInactive = errors.New("account is not active")
	// ErrNotTaskAssignee is returned when a member updates a task assigned to someone else.
	ErrNotTaskAssignee = errors.New("task is not assigned to you")
	// ErrSelfMessage is returned when a user messages themselves.
	ErrSelfMessage = errors.New("cannot send a message to yourself")
	// ErrBlankField is returned when a required text field is empty after trimming.
	ErrBlankField = errors.New("required field is blank")
	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidPriority is returned for an unknown task priority.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidRole is returned for an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidAmount is returned when a numeric value is invalid.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDateRange is returned when a due date precedes the start date.
	ErrInvalidDateRange = errors.New("due date is before start date")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// Unauthorized is the 401 response for any authentication failure.
func Unauthorized(cause error) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, "Unauthorized", auth.ReasonCode(cause))
}

// Forbidden is the 403 response for a role mismatch.
func Forbidden() *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Forbidden", "FORBIDDEN")
}

type mapping struct {
	err    error
	status int
	code   string
}

var mappings = []mapping{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrTeamNotFound, http.StatusNotFound, "TEAM_NOT_FOUND"},
	{ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
	{ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND"},
	{ErrGoalNotFound, http.StatusNotFound, "GOAL_NOT_FOUND"},
	{ErrNotificationNotFound, http.StatusNotFound, "NOTIFICATION_NOT_FOUND"},
	{ErrMessageNotFound, http.StatusNotFound, "MESSAGE_NOT_FOUND"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{ErrTeamAlreadyExists, http.StatusConflict, "TEAM_ALREADY_EXISTS"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrAccountPending, http.StatusForbidden, "ACCOUNT_PENDING"},
	{ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
	{ErrNotTaskAssignee, http.StatusForbidden, "NOT_TASK_ASSIGNEE"},
	{ErrSelfMessage, http.StatusBadRequest, "SELF_MESSAGE"},
	{ErrBlankField, http.StatusBadRequest, "BLANK_FIELD"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrInvalidPriority, http.StatusBadRequest, "INVALID_PRIORITY"},
	{ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
	{ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE"},
}

// MapErrorToHTTP maps domain and auth errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	if auth.IsUnauthorized(err) {
		return Unauthorized(err)
	}
	if errors.Is(err, auth.ErrForbidden) {
		return Forbidden()
	}
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
