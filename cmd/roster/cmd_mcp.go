package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/mcptools"
	"github.com/HerbHall/roster/internal/roster"
)

func runMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	// zap writes to stderr, leaving stdout to the MCP transport.
	logger, err := newLogger(s.Log.Development)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	characters, cleanup, err := loadCharacters(ctx, s, nil, logger.Named("source"))
	if err != nil {
		logger.Fatal("failed to configure character source", zap.Error(err))
	}
	defer cleanup()

	svc, err := roster.NewService(characters, s.Cache.Size, nil, logger.Named("roster"))
	if err != nil {
		logger.Fatal("failed to create query service", zap.Error(err))
	}

	if err := mcptools.New(svc, logger.Named("mcp")).Run(ctx); err != nil {
		logger.Error("MCP server stopped with error", zap.Error(err))
	}
}
