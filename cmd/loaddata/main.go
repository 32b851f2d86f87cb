// Command loaddata imports the CSV files in DATA_DIR into an empty database.
// It reads the same configuration as the API server.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/loader"
	"foodgram/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate", "error", err)
		os.Exit(1)
	}

	err = loader.New(db, cfg.DataDir, log).Load(ctx)
	switch {
	case errors.Is(err, loader.ErrAlreadyLoaded):
		// nothing to do
	case err != nil:
		log.Error("failed to load data", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
}
