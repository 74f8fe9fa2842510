package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teamboard/internal/config"
	"teamboard/internal/db"
	"teamboard/internal/logger"
	"teamboard/internal/repository"
)

type seedOptions struct {
	adminName     string
	adminEmail    string
	adminPassword string
	usersFile     string
	demo          bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and optional demo data",
		Long: `seed connects to the database configured for the server (same CONFIG_FILE
and environment variables), migrates the schema and upserts an approved admin.
Users listed in --users are upserted too; --demo adds a sample team, project,
tasks and goal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.adminName, "admin-name", "Administrator", "admin display name")
	flags.StringVar(&opts.adminEmail, "admin-email", envOr("SEED_ADMIN_EMAIL", "admin@teamboard.local"), "admin email")
	flags.StringVar(&opts.adminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (or SEED_ADMIN_PASSWORD)")
	flags.StringVar(&opts.usersFile, "users", "", "JSON file with additional users to upsert")
	flags.BoolVar(&opts.demo, "demo", false, "create demo team, project, tasks and goal")

	return cmd
}

func runSeed(ctx context.Context, opts seedOptions) error {
	if len(opts.adminPassword) < minPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", minPasswordLength)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	dbClient, err := db.New(cfg.DBDriver, cfg.DatabaseDSN, lg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := dbClient.Migrate(ctx, false); err != nil {
		return err
	}
	gormDB, err := dbClient.Connect(ctx)
	if err != nil {
		return err
	}
	lg.Info("database ready")

	users := []SeedUser{{
		Name:     opts.adminName,
		Email:    opts.adminEmail,
		Password: opts.adminPassword,
		Role:     "admin",
	}}
	if opts.usersFile != "" {
		extra, err := loadUsers(opts.usersFile)
		if err != nil {
			return err
		}
		users = append(users, extra...)
	}

	userRepo := repository.NewUserRepository(gormDB)
	created, updated, err := seedUsers(ctx, userRepo, users)
	if err != nil {
		return err
	}
	lg.Info("users seeded", zap.Int("created", created), zap.Int("updated", updated))

	if opts.demo {
		admin, err := userRepo.FindByEmail(ctx, normalizeEmail(opts.adminEmail))
		if err != nil {
			return fmt.Errorf("reload admin: %w", err)
		}
		seeded, err := seedDemo(ctx, demoRepos{
			teams:    repository.NewTeamRepository(gormDB),
			projects: repository.NewProjectRepository(gormDB),
			tasks:    repository.NewTaskRepository(gormDB),
			goals:    repository.NewGoalRepository(gormDB),
		}, admin)
		if err != nil {
			return err
		}
		if seeded {
			lg.Info("demo data created")
		} else {
			lg.Info("demo data already present, skipped")
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
