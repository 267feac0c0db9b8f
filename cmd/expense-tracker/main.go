package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.GracefulShutdown(context.Background())
	defer stop()

	ledger, err := cli.InitLedger(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize ledger", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer ledger.Close()

	srv := apphttp.NewServer(cfg.Addr(), apphttp.Options{
		Ledger:             ledger.Service,
		Store:              ledger.Repository,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expense tracker",
			log.FieldOperation, log.OpStartup,
			"addr", cfg.Addr(),
			"driver", cfg.DBDriver,
			"amqp", cfg.AMQPEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		ledger.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
