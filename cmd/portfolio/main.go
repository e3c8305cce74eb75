package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/lib/logger/handlers/slogpretty"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/lib/tracing"
	"portfolio/internal/services/auth"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// version is set at build time via ldflags.
var version = "dev"

// @title			Portfolio API
// @version		1.0
// @description	Public blog and profile endpoints plus the admin blog API.
// @BasePath		/
// @securityDefinitions.apikey	ApiKeyAuth
// @in							header
// @name						Authorization
func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash":
			os.Exit(runHash(os.Args[2:]))
		case "version":
			fmt.Printf("portfolio %s\n", version)
			return
		}
	}

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting portfolio", slog.String("env", cfg.Env), slog.String("version", version))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Enabled, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.Env)
	if err != nil {
		log.Error("failed to init tracing", sl.Err(err))
	}

	application, err := app.New(ctx, log, cfg)
	cancel()
	if err != nil {
		panic(err)
	}

	go func() {
		application.HTTPServer.MustRun()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop
	log.Info("stopping application", slog.String("signal", sign.String()))

	application.Stop()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error("failed to flush traces", sl.Err(err))
	}

	log.Info("application stopped")
}

// runHash prints the bcrypt hash to put in admin.password_hash.
func runHash(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: portfolio hash <password>")
		return 1
	}

	hash, err := auth.HashPassword(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println(hash)
	return 0
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
