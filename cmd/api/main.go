package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/altpay/wallet/internal/config"
	"github.com/altpay/wallet/internal/container"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildTime=...".
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load("./configs", "config")
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := container.New(cfg).WithBuildInfo(version, buildTime)

	if err := app.Initialize(context.Background()); err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.Logger().Error("Server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.Logger().Info("Server stopped gracefully")
}
