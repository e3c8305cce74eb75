package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/repository"
	"portfolio/internal/storage/postgresql"
)

// migrator applies the schema and seeds the admin author row, then exits.
func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(log, cfg); err != nil {
		log.Error("migration failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := postgresql.New(ctx, cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer storage.Stop()

	if err := storage.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	author, err := repository.New(storage.Pool()).Author.EnsureAuthor(ctx, cfg.Admin.Name, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("seed author: %w", err)
	}

	log.Info("migrations applied", slog.String("author", author.Email))

	return nil
}
