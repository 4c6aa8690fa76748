// Package main is the entry point for the mytasks CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mytasks/internal/apiclient"
	"mytasks/internal/cli"
	"mytasks/internal/commands"
	"mytasks/internal/config"
	"mytasks/internal/logging"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create client factory
	factory := func(ctx context.Context, cfg *config.Config) (*apiclient.Client, error) {
		jar, err := apiclient.OpenJar(cfg.SessionPath())
		if err != nil {
			return nil, err
		}
		logger := logging.New(os.Stderr, logging.Options{Debug: cfg.Debug})
		return apiclient.New(cfg.ServerURL, jar, logger), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
