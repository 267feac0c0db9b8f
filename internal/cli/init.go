// Package cli provides common initialization shared by cmd/expense-tracker
// and cmd/ledger.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensetracker/internal/amqp"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

const amqpConnectAttempts = 5

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	if cfg != nil {
		lc.Format = cfg.LogFormat
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
	}

	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// InitRepository opens the configured store and applies migrations.
func InitRepository(ctx context.Context, logger *log.Logger, cfg *config.Config) (*storage.Repository, error) {
	repo, err := storage.NewRepository(ctx, storage.Options{
		Driver:       storage.Driver(cfg.DBDriver),
		DSN:          cfg.DSN(),
		MaxOpenConns: cfg.MaxOpenConns,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize %s repository: %w", cfg.DBDriver, err)
	}

	logger.Info("Repository ready", "driver", cfg.DBDriver)
	return repo, nil
}

// InitPublisher connects to the broker when AMQP_URL is set. It returns a
// nil client when publishing is disabled.
func InitPublisher(ctx context.Context, logger *log.Logger, cfg *config.Config) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP publishing disabled")
		return nil, nil
	}

	client, err := amqp.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, amqpConnectAttempts)
	if err != nil {
		return nil, fmt.Errorf("initialize AMQP client: %w", err)
	}

	logger.Info("AMQP publishing enabled",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)
	return client, nil
}

// Ledger bundles the service with the resources it holds open.
type Ledger struct {
	Service    *services.ExpenseService
	Repository *storage.Repository
	Publisher  *amqp.Client

	logger *log.Logger
}

// InitLedger opens the store and, when configured, the publisher, and
// wires them into an ExpenseService.
func InitLedger(ctx context.Context, logger *log.Logger, cfg *config.Config) (*Ledger, error) {
	repo, err := InitRepository(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	client, err := InitPublisher(ctx, logger, cfg)
	if err != nil {
		repo.Close()
		return nil, err
	}

	// a nil *amqp.Client must not reach the service as a non-nil interface
	var publisher services.EventPublisher
	if client != nil {
		publisher = client
	}

	return &Ledger{
		Service:    services.NewExpenseService(repo, publisher, logger),
		Repository: repo,
		Publisher:  client,
		logger:     logger,
	}, nil
}

// Close releases the publisher and the store.
func (l *Ledger) Close() error {
	if l.Publisher != nil {
		if err := l.Publisher.Close(); err != nil {
			l.logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}
	return l.Repository.Close()
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
