package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/jasminek987/WageFlowApp/cmd/wageflow/cli"
	"github.com/jasminek987/WageFlowApp/internal/api"
	"github.com/jasminek987/WageFlowApp/internal/app"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "wageflow:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storage session.Storage
	switch cfg.SessionBackend {
	case "redis":
		storage = session.NewRedisStorage(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	default:
		storage, err = session.NewFileStorage(cfg.SessionPath)
		if err != nil {
			return err
		}
	}
	sessions, err := session.NewStore(ctx, storage)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.APIBase, cfg.HTTPTimeout, sessions, logger)
	shell := cli.NewShell(client, sessions, logger, os.Stdin, os.Stdout)
	return shell.Run(ctx)
}
