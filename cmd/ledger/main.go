// Command ledger runs a single ledger operation against the configured
// store and prints the result as JSON.
//
//	ledger add -date 2024-01-15 -amount 12.50 -category Food [-subcategory S] [-note N]
//	ledger list -start 2024-01-01 -end 2024-01-31
//	ledger summarize -start 2024-01-01 -end 2024-01-31 [-category Food]
//	ledger categories
package main

import (
	"context"
	"os"

	"expensetracker/internal/cli"
	"expensetracker/internal/log"
)

func main() {
	cli.LoadEnvFile()

	ctx, stop := cli.GracefulShutdown(context.Background())
	defer stop()

	app := &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open:   openLedger,
	}
	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// openLedger loads config from the environment and opens the store. Logs
// go to stderr so stdout carries only the result.
func openLedger(ctx context.Context) (Ledger, func(), error) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, nil, err
	}

	lc := log.DefaultConfig()
	lc.Component = log.ComponentCLI
	lc.Format = cfg.LogFormat
	lc.Output = os.Stderr
	lc.Level, _ = log.ParseLevel(cfg.LogLevel)
	logger := log.New(lc)
	log.SetDefault(logger)

	ledger, err := cli.InitLedger(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ledger.Service, func() { _ = ledger.Close() }, nil
}
