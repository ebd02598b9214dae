package main

import (
	"context"
	"fmt"
	"os"

	"go-bizkeeper/internal/app"
	"go-bizkeeper/internal/config"
	"go-bizkeeper/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	open := func(ctx context.Context) (*app.App, error) {
		return app.Open(ctx, cfg, logger.L())
	}
	if err := newRootCmd(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
}
