package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/config"
	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/roster"
	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/internal/source"
	"github.com/HerbHall/roster/internal/store"
)

// settings is the typed view of the configuration tree.
type settings struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Source source.Settings `mapstructure:"source"`
	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`
	Cache struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"cache"`
	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"ratelimit"`
	Log struct {
		Development bool `mapstructure:"development"`
	} `mapstructure:"log"`
	Web struct {
		Title string `mapstructure:"title"`
	} `mapstructure:"web"`
}

// Addr is the listen address, falling back to 0.0.0.0:8080.
func (s settings) Addr() string {
	addr := s.Server.Host + ":" + s.Server.Port
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	return addr
}

func loadSettings(path string) (settings, error) {
	var s settings
	cfg, err := config.Load(path)
	if err != nil {
		return s, err
	}
	if err := cfg.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// snapshots opens the SQLite snapshot repository at path. The caller closes
// the returned store.
func snapshots(ctx context.Context, path string) (*store.SQLiteStore, *services.SQLiteSnapshotRepository, error) {
	db, err := store.New(path)
	if err != nil {
		return nil, nil, err
	}
	repo, err := services.NewSQLiteSnapshotRepository(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}

// loadCharacters builds the source described by s.Source and populates a
// Store from it. A failed load is recorded on the Store and in metrics, and is not
// fatal: the caller keeps serving and reports the data as unavailable.
// The returned cleanup func is never nil.
func loadCharacters(ctx context.Context, s settings, m *metrics.Metrics, logger *zap.Logger) (*roster.Store, func(), error) {
	cleanup := func() {}

	var repo services.SnapshotRepository
	if s.Source.Kind == source.KindSnapshot {
		db, r, err := snapshots(ctx, s.Store.Path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open snapshot store: %w", err)
		}
		cleanup = func() { db.Close() }
		repo = r
	}

	src, err := source.New(s.Source, repo)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	characters := roster.NewStore()
	if err := characters.Load(ctx, src, logger); err != nil {
		if m != nil {
			m.LoadFailures.Inc()
		}
		logger.Warn("serving without character data", zap.Error(err))
		return characters, cleanup, nil
	}
	if m != nil {
		m.RecordsLoaded.Set(float64(characters.Len()))
	}
	return characters, cleanup, nil
}
