package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MinJWTSecretLength is the shortest accepted JWT_SECRET, in bytes.
const MinJWTSecretLength = 32

// Config holds application level configuration loaded from an optional YAML
// file and environment variables.
type Config struct {
	ServerPort      string        `yaml:"server_port" validate:"required,numeric"`
	DBDriver        string        `yaml:"db_driver" validate:"required,oneof=mysql postgres"`
	DatabaseDSN     string        `yaml:"database_dsn" validate:"required"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisDB         int           `yaml:"redis_db" validate:"gte=0"`
	RedisPass       string        `yaml:"redis_password"`
	JWTSecret       string        `yaml:"jwt_secret" validate:"required"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" validate:"gt=0"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" validate:"gt=0"`
	AuthCookieName  string        `yaml:"auth_cookie_name" validate:"required"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `yaml:"log_format" validate:"oneof=json console"`
	SwaggerHost     string        `yaml:"swagger_host"`
	ResetDB         bool          `yaml:"reset_db"`
}

// Defaults returns the configuration used when nothing is set. JWTSecret has
// no default.
func Defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		DBDriver:        "mysql",
		DatabaseDSN:     "user:password@tcp(localhost:3306)/teamboard?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:       "localhost:6379",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		AuthCookieName:  "auth_token",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds Config from CONFIG_FILE (if set) and the environment, then
// validates it. A missing or short JWT_SECRET is an error.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be set and at least %d bytes long", MinJWTSecretLength)
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DatabaseDSN = getEnv("MYSQL_DSN", c.DatabaseDSN)
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AuthCookieName = getEnv("AUTH_COOKIE_NAME", c.AuthCookieName)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)

	var err error
	if c.RedisDB, err = getEnvInt("REDIS_DB", c.RedisDB); err != nil {
		return err
	}
	if c.AccessTokenTTL, err = getEnvDuration("ACCESS_TOKEN_TTL", c.AccessTokenTTL); err != nil {
		return err
	}
	if c.RefreshTokenTTL, err = getEnvDuration("REFRESH_TOKEN_TTL", c.RefreshTokenTTL); err != nil {
		return err
	}
	if c.CookieSecure, err = getEnvBool("COOKIE_SECURE", c.CookieSecure); err != nil {
		return err
	}
	if c.ResetDB, err = getEnvBool("RESET_DB", c.ResetDB); err != nil {
		return err
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
