package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"teamboard/internal/auth"
	"teamboard/internal/errors"
	"teamboard/internal/middleware"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse carries a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

// respondError converts a service error into an HTTP error. The original
// error is kept as internal so the error handler can log it.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_QUERY",
		})
	}
	return &v, nil
}

func queryID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_QUERY",
		})
	}
	v := uint(id)
	return &v, nil
}

// currentIdentity returns the caller. Routes using it sit behind
// Authenticate, so a missing identity means the route was wired wrong.
func currentIdentity(c echo.Context) (auth.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		httpErr := errors.Unauthorized(auth.ErrMissingToken)
		return auth.Identity{}, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return identity, nil
}
