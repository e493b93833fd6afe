package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/roster"
	"github.com/HerbHall/roster/internal/server"
	"github.com/HerbHall/roster/internal/version"
	"github.com/HerbHall/roster/internal/web"
)

const shutdownTimeout = 10 * time.Second

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(s.Log.Development)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Roster server starting", zap.String("version", version.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	characters, cleanup, err := loadCharacters(ctx, s, m, logger.Named("source"))
	if err != nil {
		logger.Fatal("failed to configure character source", zap.Error(err))
	}
	defer cleanup()

	svc, err := roster.NewService(characters, s.Cache.Size, m, logger.Named("roster"))
	if err != nil {
		logger.Fatal("failed to create query service", zap.Error(err))
	}
	pages, err := web.NewHandler(svc, s.Web.Title, logger.Named("web"))
	if err != nil {
		logger.Fatal("failed to load page templates", zap.Error(err))
	}

	srv := server.New(s.Addr(), logger.Named("server"), server.Options{
		RateLimit: s.RateLimit.RPS,
		Burst:     s.RateLimit.Burst,
		Metrics:   m,
		Ready:     characters.Err,
		Records:   characters.Len,
	}, roster.NewHandler(svc, logger.Named("api")), pages)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("Roster server ready", zap.String("addr", s.Addr()), zap.Int("records", characters.Len()))

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Roster server stopped")
}
