package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"teamboard/internal/auth"
	"teamboard/internal/cache"
	"teamboard/internal/config"
	"teamboard/internal/db"
	"teamboard/internal/handler"
	"teamboard/internal/logger"
	"teamboard/internal/metrics"
	"teamboard/internal/repository"
	"teamboard/internal/router"
	"teamboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Teamboard API
// @version 1.0
// @description Team and project management API with JWT authentication and role-based access.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	dbClient, err := db.New(cfg.DBDriver, cfg.DatabaseDSN, lg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := dbClient.Migrate(ctx, cfg.ResetDB); err != nil {
		return err
	}
	gormDB, err := dbClient.Connect(ctx)
	if err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, lg)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		lg.Warn("redis unavailable, refresh tokens and caching are disabled until it recovers", zap.Error(err))
	}

	m := metrics.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	teamRepo := repository.NewTeamRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	goalRepo := repository.NewGoalRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	// Initialize auth components
	codec := auth.NewCodec(cfg.JWTSecret)
	verifier := auth.NewVerifier(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, lg)
	authService := service.NewAuthService(userRepo, codec, tokenStore, service.TokenTTLs{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
	}, m, lg)
	userService := service.NewUserService(userRepo, cacheClient, notificationService)
	teamService := service.NewTeamService(teamRepo, userRepo, notificationService)
	projectService := service.NewProjectService(projectRepo, teamRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, notificationService, m, lg)
	goalService := service.NewGoalService(goalRepo, projectRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, notificationService, m)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, router.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:   cfg.AuthCookieName,
			Secure: cfg.CookieSecure,
		}),
		User:         handler.NewUserHandler(userService),
		Team:         handler.NewTeamHandler(teamService),
		Project:      handler.NewProjectHandler(projectService),
		Task:         handler.NewTaskHandler(taskService),
		Goal:         handler.NewGoalHandler(goalService),
		Notification: handler.NewNotificationHandler(notificationService),
		Message:      handler.NewMessageHandler(messageService),
	}, router.Options{
		Verifier:    verifier,
		CookieName:  cfg.AuthCookieName,
		Metrics:     m,
		Logger:      lg,
		Ready:       dbClient.Ping,
		SwaggerHost: cfg.SwaggerHost,
	})

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server listening", zap.String("addr", addr), zap.String("swagger", "/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
