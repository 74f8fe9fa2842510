package router

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"teamboard/docs"
	"teamboard/internal/auth"
	"teamboard/internal/handler"
	"teamboard/internal/metrics"
	"teamboard/internal/middleware"
)

const readinessTimeout = 2 * time.Second

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Team         *handler.TeamHandler
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Goal         *handler.GoalHandler
	Notification *handler.NotificationHandler
	Message      *handler.MessageHandler
}

// Options carries the non-handler dependencies of Register.
type Options struct {
	Verifier    *auth.Verifier
	CookieName  string
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Ready       func(ctx context.Context) error
	SwaggerHost string
}

// Register wires routes and middleware.
func Register(e *echo.Echo, h Handlers, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	e.HTTPErrorHandler = middleware.ErrorHandler(e, logger)
	e.Validator = handler.NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(m.Middleware())

	if opts.SwaggerHost != "" {
		docs.SwaggerInfo.Host = opts.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/readyz", readiness(opts.Ready))
	e.GET("/metrics", m.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	// Everything below requires a valid session token.
	secured := api.Group("", middleware.Authenticate(middleware.AuthConfig{
		Verifier:   opts.Verifier,
		CookieName: opts.CookieName,
		Metrics:    m,
		Logger:     logger,
	}))
	admin := middleware.RequireRole(auth.RoleAdmin, m)
	lead := middleware.RequireAnyRole(m, auth.RoleAdmin, auth.RoleTeamLead)

	secured.GET("/me", h.User.Me)
	secured.PUT("/me", h.User.UpdateMe)

	// User routes
	secured.GET("/users", h.User.ListUsers, admin)
	secured.GET("/users/:id", h.User.GetUser)
	secured.PATCH("/users/:id/approve", h.User.Approve, admin)
	secured.PATCH("/users/:id/role", h.User.SetRole, admin)
	secured.PATCH("/users/:id/active", h.User.SetActive, admin)

	// Team routes
	secured.GET("/teams", h.Team.List)
	secured.GET("/teams/:id", h.Team.Get)
	secured.POST("/teams", h.Team.Create, admin)
	secured.PUT("/teams/:id", h.Team.Update, admin)
	secured.DELETE("/teams/:id", h.Team.Delete, admin)
	secured.POST("/teams/:id/members", h.Team.AddMember, admin)
	secured.DELETE("/teams/:id/members/:userId", h.Team.RemoveMember, admin)

	// Project routes
	secured.GET("/projects", h.Project.List)
	secured.GET("/projects/:id", h.Project.Get)
	secured.POST("/projects", h.Project.Create, admin)
	secured.PUT("/projects/:id", h.Project.Update, admin)
	secured.DELETE("/projects/:id", h.Project.Delete, admin)
	secured.GET("/projects/:id/tasks", h.Task.ListByProject)
	secured.GET("/projects/:id/goals", h.Goal.ListByProject)

	// Task routes
	secured.GET("/tasks/mine", h.Task.Mine)
	secured.GET("/tasks/:id", h.Task.Get)
	secured.POST("/tasks", h.Task.Create, lead)
	secured.PUT("/tasks/:id", h.Task.Update, lead)
	secured.PATCH("/tasks/:id/status", h.Task.UpdateStatus)
	secured.DELETE("/tasks/:id", h.Task.Delete, admin)

	// Goal routes
	secured.POST("/goals", h.Goal.Create, lead)
	secured.PUT("/goals/:id", h.Goal.Update, lead)
	secured.PATCH("/goals/:id/progress", h.Goal.UpdateProgress, lead)
	secured.DELETE("/goals/:id", h.Goal.Delete, admin)

	// Notification routes
	secured.GET("/notifications", h.Notification.List)
	secured.PATCH("/notifications/:id/read", h.Notification.MarkRead)
	secured.POST("/notifications/read-all", h.Notification.MarkAllRead)

	// Message routes
	secured.POST("/messages", h.Message.Send)
	secured.GET("/messages/conversations/:userId", h.Message.Conversation)
	secured.GET("/messages/unread-count", h.Message.UnreadCount)
	secured.PATCH("/messages/:id/read", h.Message.MarkRead)
}

func readiness(ready func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ready == nil {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()
		if err := ready(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "not ready")
		}
		return c.String(http.StatusOK, "ok")
	}
}
