package main

import (
	"log/slog"
	"os"

	"projecthub-backend/shared/config"
	"projecthub-backend/shared/database"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	slog.Info("Starting database reset")

	cfg := config.LoadConfig()

	// InitDatabase migrates first, so every table is known to exist before dropping.
	db, err := database.InitDatabase(cfg)
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.CloseDatabase(db)

	if err := database.DropAll(db); err != nil {
		slog.Error("Database reset failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Database reset completed, run the seed command to recreate demo data")
}
