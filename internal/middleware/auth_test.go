package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamboard/internal/auth"
	"teamboard/internal/metrics"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

func newTestServer(t *testing.T) (*echo.Echo, *auth.Codec) {
	t.Helper()

	m := metrics.New()
	e := echo.New()
	api := e.Group("/api", Authenticate(AuthConfig{
		Verifier:   auth.NewVerifier(testSecret),
		CookieName: "auth_token",
		Metrics:    m,
	}))

	whoami := func(c echo.Context) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, identity)
	}
	api.GET("/me", whoami)
	api.GET("/users", whoami, RequireRole(auth.RoleAdmin, m))
	api.POST("/tasks", whoami, RequireAnyRole(m, auth.RoleAdmin, auth.RoleTeamLead))

	return e, auth.NewCodec(testSecret)
}

func issue(t *testing.T, codec *auth.Codec, role auth.Role, ttl time.Duration) string {
	t.Helper()
	token, err := codec.Issue(auth.Identity{UserID: 7, Email: "a@b.co", Role: role}, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	e, codec := newTestServer(t)
	other := auth.NewCodec("some-other-secret-0123456789abcdefgh")

	tests := []struct {
		name       string
		path       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no credentials",
			path:       "/api/me",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"error":"Unauthorized"`,
		},
		{
			name:       "basic scheme is ignored",
			path:       "/api/me",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"MISSING_TOKEN"`,
		},
		{
			name:       "malformed token",
			path:       "/api/me",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"MALFORMED_TOKEN"`,
		},
		{
			name:       "signed with another secret",
			path:       "/api/me",
			header:     "Bearer " + issue(t, other, auth.RoleAdmin, time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"SIGNATURE_MISMATCH"`,
		},
		{
			name:       "expired token",
			path:       "/api/me",
			header:     "Bearer " + issue(t, codec, auth.RoleAdmin, -time.Second),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"TOKEN_EXPIRED"`,
		},
		{
			name:       "valid bearer token",
			path:       "/api/me",
			header:     "Bearer " + issue(t, codec, auth.RoleMember, time.Hour),
			wantStatus: http.StatusOK,
			wantBody:   `"userId":7`,
		},
		{
			name:       "valid cookie token",
			path:       "/api/me",
			cookie:     issue(t, codec, auth.RoleMember, time.Hour),
			wantStatus: http.StatusOK,
			wantBody:   `"role":"member"`,
		},
		{
			name:       "member on admin route",
			path:       "/api/users",
			header:     "Bearer " + issue(t, codec, auth.RoleMember, time.Hour),
			wantStatus: http.StatusForbidden,
			wantBody:   `"error":"Forbidden"`,
		},
		{
			name:       "teamlead on admin route",
			path:       "/api/users",
			header:     "Bearer " + issue(t, codec, auth.RoleTeamLead, time.Hour),
			wantStatus: http.StatusForbidden,
			wantBody:   `"code":"FORBIDDEN"`,
		},
		{
			name:       "admin on admin route",
			path:       "/api/users",
			header:     "Bearer " + issue(t, codec, auth.RoleAdmin, time.Hour),
			wantStatus: http.StatusOK,
			wantBody:   `"role":"admin"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAnyRole(t *testing.T) {
	e, codec := newTestServer(t)

	for role, want := range map[auth.Role]int{
		auth.RoleAdmin:    http.StatusOK,
		auth.RoleTeamLead: http.StatusOK,
		auth.RoleMember:   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{}"))
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, codec, role, time.Hour))
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, role)
	}
}

func TestGate_WithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := RequireRole(auth.RoleAdmin, nil)(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestCurrentIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := CurrentIdentity(c)
	assert.False(t, ok)

	SetIdentity(c, auth.Identity{UserID: 3, Email: "x@y.z", Role: auth.RoleTeamLead})
	identity, ok := CurrentIdentity(c)
	require.True(t, ok)
	assert.Equal(t, uint(3), identity.UserID)
	assert.Equal(t, auth.RoleTeamLead, identity.Role)
}
