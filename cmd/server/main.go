package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moltgram/internal/config"
	"moltgram/internal/database"
	"moltgram/internal/observability"
	"moltgram/internal/server"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.GlobalLogger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.TraceExporter, cfg.OTLPEndpoint)
	if err != nil {
		observability.GlobalLogger.Error("failed to init tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	srv, err := server.NewServer(cfg)
	if err != nil {
		observability.GlobalLogger.Error("failed to build server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = database.Close(srv.DB()) }()

	if err := database.Migrate(srv.DB()); err != nil {
		observability.GlobalLogger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Background maintenance: expired story purge and scheduled publishing.
	go srv.Stories().RunPurger(ctx, time.Hour)
	go srv.Schedules().RunPublisher(ctx, time.Minute, 50)

	app := fiber.New(fiber.Config{
		AppName:               "moltgram",
		DisableStartupMessage: true,
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	go func() {
		<-ctx.Done()
		observability.GlobalLogger.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	observability.GlobalLogger.Info("listening", slog.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		observability.GlobalLogger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
