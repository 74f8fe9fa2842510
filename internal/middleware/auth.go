package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"teamboard/internal/auth"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/metrics"
)

const identityContextKey = "identity"

// AuthConfig configures Authenticate.
type AuthConfig struct {
	Verifier   *auth.Verifier
	CookieName string
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// Authenticate extracts the session token from the Authorization header
// (Bearer) or the auth cookie, verifies it and stores the identity on the
// context. Any failure ends the request with 401.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + cfg.CookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			res := cfg.Verifier.Verify(token)
			if !res.Success {
				return nil, res.Err
			}
			identity := res.User
			return &identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			cause := unauthorizedCause(err)
			cfg.Metrics.IncAuthFailure(auth.ReasonCode(cause))
			logger.Debug("request rejected by token verifier",
				zap.String("path", c.Path()),
				zap.String("reason", auth.ReasonCode(cause)),
				zap.Error(err),
			)
			httpErr := apperrors.Unauthorized(cause)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// unauthorizedCause narrows whatever echo-jwt reports to one of the verifier
// errors. Extraction failures (no header, no cookie) mean the token is missing.
func unauthorizedCause(err error) error {
	for _, known := range []error{
		auth.ErrMalformedToken,
		auth.ErrSignatureMismatch,
		auth.ErrExpiredToken,
		auth.ErrMissingToken,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	return auth.ErrMissingToken
}

// RequireRole lets the request through only when the identity has exactly role.
func RequireRole(role auth.Role, m *metrics.Metrics) echo.MiddlewareFunc {
	return gate(string(role), m, func(identity auth.Identity) error {
		return auth.Authorize(identity, role)
	})
}

// RequireAnyRole lets the request through when the identity has one of roles.
func RequireAnyRole(m *metrics.Metrics, roles ...auth.Role) echo.MiddlewareFunc {
	label := ""
	for i, r := range roles {
		if i > 0 {
			label += "|"
		}
		label += string(r)
	}
	return gate(label, m, func(identity auth.Identity) error {
		return auth.AuthorizeAny(identity, roles...)
	})
}

func gate(label string, m *metrics.Metrics, check func(auth.Identity) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				httpErr := apperrors.Unauthorized(auth.ErrMissingToken)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if err := check(identity); err != nil {
				m.IncAuthDenial(label)
				return echo.NewHTTPError(http.StatusForbidden, apperrors.Forbidden().ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity stored by Authenticate.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(*auth.Identity)
	if !ok || identity == nil {
		return auth.Identity{}, false
	}
	return *identity, true
}

// SetIdentity stores identity on the context. Used by tests and internal callers.
func SetIdentity(c echo.Context, identity auth.Identity) {
	c.Set(identityContextKey, &identity)
}
