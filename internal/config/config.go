package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultDBFile is the file name used when SQLITE_DB_PATH is not set.
const DefaultDBFile = "expenses.db"

type Config struct {
	// HTTP Server
	Port            int           `envconfig:"PORT" default:"8000" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"min=1s,max=5m"`
	// 0 disables rate limiting
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120" validate:"min=0,max=100000"`
	// comma separated; empty disables CORS
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" validate:"dive,required"`

	// Database
	DBDriver     string `envconfig:"DB_DRIVER" default:"sqlite" validate:"oneof=sqlite pgx"`
	SQLiteDBPath string `envconfig:"SQLITE_DB_PATH" validate:"required_if=DBDriver sqlite"`
	DatabaseURL  string `envconfig:"DATABASE_URL" validate:"required_if=DBDriver pgx"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0" validate:"min=0,max=100"`

	// AMQP, optional
	AMQPURL        string `envconfig:"AMQP_URL" validate:"omitempty,url"`
	AMQPExchange   string `envconfig:"AMQP_EXCHANGE" default:"expenses" validate:"required_with=AMQPURL"`
	AMQPRoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"expense.created" validate:"required_with=AMQPURL"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration from the environment. The database path
// falls back to a file in the OS temp directory.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.SQLiteDBPath == "" {
		cfg.SQLiteDBPath = DefaultDBPath()
	}
	return &cfg, nil
}

func DefaultDBPath() string {
	return filepath.Join(os.TempDir(), DefaultDBFile)
}

// AMQPEnabled reports whether event publishing is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.SQLiteDBPath
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err == nil && u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

var envNames = map[string]string{
	"Port":               "PORT",
	"ShutdownTimeout":    "SHUTDOWN_TIMEOUT",
	"RateLimitPerMinute": "RATE_LIMIT_PER_MINUTE",
	"CORSAllowedOrigins": "CORS_ALLOWED_ORIGINS",
	"DBDriver":           "DB_DRIVER",
	"SQLiteDBPath":       "SQLITE_DB_PATH",
	"DatabaseURL":        "DATABASE_URL",
	"MaxOpenConns":       "DB_MAX_OPEN_CONNS",
	"AMQPURL":            "AMQP_URL",
	"AMQPExchange":       "AMQP_EXCHANGE",
	"AMQPRoutingKey":     "AMQP_ROUTING_KEY",
	"LogLevel":           "LOG_LEVEL",
	"LogFormat":          "LOG_FORMAT",
}

func describe(fe validator.FieldError) string {
	field, _, _ := strings.Cut(fe.Field(), "[")
	name := envNames[field]
	if name == "" {
		name = field
	}

	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("invalid %s '%v': must be %s %s", name, fe.Value(), bound(fe.Tag()), fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid %s '%v': must be one of [%s]", name, fe.Value(), fe.Param())
	case "required", "required_if", "required_with":
		return fmt.Sprintf("%s is required", name)
	case "url":
		return fmt.Sprintf("invalid %s '%v': not a valid URL", name, fe.Value())
	default:
		return fmt.Sprintf("invalid %s '%v': failed %s", name, fe.Value(), fe.Tag())
	}
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
