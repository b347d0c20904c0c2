package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chargehub/backend/libs/logging"
	app "chargehub/backend/services/chargehub/internal/app"
	"chargehub/backend/services/chargehub/internal/config"
)

const startupTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chargehub: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.LogLevel, "chargehub")
	if err != nil {
		fmt.Fprintf(os.Stderr, "chargehub: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	application, err := app.New(startCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}
	defer application.Close()

	logger.Info("chargehub starting",
		zap.String("addr", cfg.HTTPAddress()),
		zap.String("backend", cfg.Backend.Kind),
		zap.String("map_adapter", cfg.Map.Adapter),
		zap.Bool("redis", cfg.RedisEnabled()),
	)

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped with error", zap.Error(err))
		return 1
	}
	logger.Info("chargehub stopped")
	return 0
}
