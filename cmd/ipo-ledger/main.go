package main

import (
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/app/setup"
	"github.com/LavaJover/shvark-ipo-ledger/internal/config"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/logger"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()

	logCloser, err := logger.Setup(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		slog.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := setup.InitializeHTTP(deps, setup.InitializeUseCases(deps))

	addr := net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	go func() {
		slog.Info("ipo ledger listening", "addr", addr, "env", cfg.Env, "driver", cfg.LedgerDB.Driver)
		if err := app.Listen(addr); err != nil {
			slog.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
