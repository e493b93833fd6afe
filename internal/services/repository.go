// Package services provides repository interfaces and SQLite implementations
// for Roster's persisted data. Snapshots of the character source live here so
// the server can start offline from the last successful import.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HerbHall/roster/internal/store"
)

// Store is the persistence handle repositories migrate and query through.
// *store.SQLiteStore satisfies it.
type Store interface {
	DB() *sql.DB
	Migrate(ctx context.Context, module string, migrations []store.Migration) error
}

// ListOptions controls pagination and sorting for list queries.
type ListOptions struct {
	Limit     int    // Max results per page (default 50, max 1000).
	Offset    int    // Number of results to skip.
	SortBy    string // Column name (validated per-repository).
	SortOrder string // "asc" or "desc" (default "desc").
}

// ListResult wraps a paginated result set with a total count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Sentinel errors returned by repositories.
var (
	ErrNotFound = errors.New("not found")
	ErrEmpty    = errors.New("empty snapshot")
)

// normalizeListOptions applies defaults and caps to list options.
func normalizeListOptions(opts ListOptions) ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 1000 {
		opts.Limit = 1000
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.SortOrder != "asc" {
		opts.SortOrder = "desc"
	}
	return opts
}
