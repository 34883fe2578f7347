package main

import (
	"context"
	"log/slog"
	"os"

	"storefront/internal/cli"
	"storefront/internal/config"
	"storefront/internal/inventory"
	"storefront/internal/repository"
	"storefront/internal/usecase"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	repo, err := repository.NewLedgerFile(cfg.AccountsPath(), logger)
	if err != nil {
		logger.Error("failed to init account ledger", "error", err)
		return
	}

	catalog, err := inventory.Load(cfg.DataDir, cfg.StockPerItem, logger)
	if err != nil {
		logger.Warn("failed to load inventory, starting with an empty catalog", "error", err)
		catalog = inventory.New()
	}

	svc := usecase.NewService(repo, catalog)
	app := cli.New(svc, cfg.SignInAttempts, os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		logger.Error("terminal session ended with error", "error", err)
	}
}
