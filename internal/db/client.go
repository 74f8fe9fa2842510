package db

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"teamboard/internal/model"
)

// Client owns the GORM connection. It is constructed explicitly and passed to
// whoever needs the database; Connect is safe to call from any goroutine and
// opens the pool at most once.
type Client struct {
	dialector gorm.Dialector
	logger    *zap.Logger
	opened    atomic.Bool
	open      func() (*gorm.DB, error)
}

// New returns a client for the named driver ("mysql" or "postgres").
func New(driver, dsn string, logger *zap.Logger) (*Client, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return NewWithDialector(dialector, logger), nil
}

// NewWithDialector returns a client for an already configured dialector.
func NewWithDialector(dialector gorm.Dialector, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{dialector: dialector, logger: logger.Named("db")}
	c.open = sync.OnceValues(c.connect)
	return c
}

func (c *Client) connect() (*gorm.DB, error) {
	gormDB, err := gorm.Open(c.dialector, &gorm.Config{
		Logger: gormlogger.New(zapWriter{c.logger.Sugar()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.dialector.Name(), err)
	}
	c.opened.Store(true)
	c.logger.Info("database connected", zap.String("driver", c.dialector.Name()))
	return gormDB, nil
}

// Connect returns the shared connection, opening it on first use. A failed
// first attempt is remembered; build a new Client to retry.
func (c *Client) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.open()
}

// Migrate creates or updates the schema. With reset it drops every table first.
func (c *Client) Migrate(ctx context.Context, reset bool) error {
	gormDB, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	gormDB = gormDB.WithContext(ctx)

	models := model.All()
	if reset {
		c.logger.Warn("RESET_DB set, dropping all tables")
		if err := gormDB.Migrator().DropTable("team_members"); err != nil {
			c.logger.Warn("drop table failed (may not exist)", zap.String("table", "team_members"), zap.Error(err))
		}
		for i := len(models) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(models[i]); err != nil {
				c.logger.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	if err := gormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Ping checks the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	gormDB, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the pool if it was ever opened.
func (c *Client) Close() error {
	if !c.opened.Load() {
		return nil
	}
	gormDB, err := c.open()
	if err != nil {
		return nil
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type zapWriter struct {
	l *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.l.Warnf(format, args...)
}
