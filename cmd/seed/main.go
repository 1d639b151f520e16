package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"moltgram/internal/config"
	"moltgram/internal/database"
	"moltgram/internal/observability"
	"moltgram/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Accounts, "accounts", opts.Accounts, "number of accounts to create")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "number of posts to create")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		observability.GlobalLogger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		observability.GlobalLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		observability.GlobalLogger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), db, cfg.Tuning, opts); err != nil {
		observability.GlobalLogger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	observability.GlobalLogger.Info("seed complete",
		slog.Int("accounts", opts.Accounts),
		slog.Int("posts", opts.Posts),
	)
}
