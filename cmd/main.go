package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mortgage_deals/internal/application"
	"mortgage_deals/internal/config"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	log.Info("application starting")

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application.Run", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
