package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/catalog"
	"github.com/HerbHall/phonedex/internal/mcptools"
	"github.com/HerbHall/phonedex/internal/server"
)

func runMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cat := openCatalog(cfg)
	if _, err := cat.Len(); err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tools := mcptools.New(catalog.NewEngine(cat), logger.Named("mcp"))
	if err := tools.Run(ctx); err != nil {
		logger.Error("MCP server stopped", zap.Error(err))
		os.Exit(1)
	}
}
