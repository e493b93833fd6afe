package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/roster/internal/store"
	"github.com/HerbHall/roster/pkg/models"
)

// Snapshot describes one persisted copy of the character collection.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotRepository persists whole character collections.
type SnapshotRepository interface {
	// Save stores records as a new snapshot tagged with source.
	Save(ctx context.Context, source string, records []models.Character) (*Snapshot, error)

	// Latest returns the newest snapshot and its records.
	Latest(ctx context.Context) (*Snapshot, []models.Character, error)

	// List returns snapshot metadata without payloads.
	List(ctx context.Context, opts ListOptions) (*ListResult[Snapshot], error)

	// Prune deletes all but the newest keep snapshots and reports how many were removed.
	Prune(ctx context.Context, keep int) (int, error)
}

// Compile-time interface guard.
var _ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)

// SQLiteSnapshotRepository implements SnapshotRepository using SQLite. The
// record payload is stored as a JSON document in the source format.
type SQLiteSnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

// SnapshotOption configures a SQLiteSnapshotRepository.
type SnapshotOption func(*SQLiteSnapshotRepository)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) SnapshotOption {
	return func(r *SQLiteSnapshotRepository) { r.now = now }
}

// NewSQLiteSnapshotRepository creates a SnapshotRepository and runs the
// roster_snapshots migration.
func NewSQLiteSnapshotRepository(ctx context.Context, s Store, opts ...SnapshotOption) (*SQLiteSnapshotRepository, error) {
	if err := s.Migrate(ctx, "roster", snapshotMigrations); err != nil {
		return nil, fmt.Errorf("roster snapshot migrations: %w", err)
	}
	r := &SQLiteSnapshotRepository{db: s.DB(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SQLiteSnapshotRepository) Save(ctx context.Context, source string, records []models.Character) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	snap := &Snapshot{
		ID:        uuid.New().String(),
		Source:    source,
		Count:     len(records),
		CreatedAt: r.now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO roster_snapshots (id, source, record_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Source, snap.Count, payload, snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

func (r *SQLiteSnapshotRepository) Latest(ctx context.Context) (*Snapshot, []models.Character, error) {
	var (
		snap    Snapshot
		payload []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, source, record_count, payload, created_at
		FROM roster_snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`,
	).Scan(&snap.ID, &snap.Source, &snap.Count, &payload, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("latest snapshot: %w", err)
	}

	var records []models.Character
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return &snap, records, nil
}

// snapshotSortColumns maps accepted SortBy values to SQL columns.
var snapshotSortColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"count":      "record_count",
	"source":     "source",
}

func (r *SQLiteSnapshotRepository) List(ctx context.Context, opts ListOptions) (*ListResult[Snapshot], error) {
	opts = normalizeListOptions(opts)
	col, ok := snapshotSortColumns[opts.SortBy]
	if !ok {
		return nil, fmt.Errorf("invalid sort column %q", opts.SortBy)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roster_snapshots`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	// col and SortOrder are whitelisted above.
	query := fmt.Sprintf(`
		SELECT id, source, record_count, created_at
		FROM roster_snapshots
		ORDER BY %s %s, rowid %s
		LIMIT ? OFFSET ?`, col, opts.SortOrder, opts.SortOrder)
	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	items := make([]Snapshot, 0)
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Source, &s.Count, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &ListResult[Snapshot]{Items: items, Total: total}, nil
}

func (r *SQLiteSnapshotRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM roster_snapshots
		WHERE id NOT IN (
			SELECT id FROM roster_snapshots
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// snapshotMigrations defines the database schema for roster_snapshots.
var snapshotMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create roster_snapshots table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE roster_snapshots (
					id           TEXT PRIMARY KEY,
					source       TEXT NOT NULL,
					record_count INTEGER NOT NULL,
					payload      BLOB NOT NULL,
					created_at   DATETIME NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index roster_snapshots by created_at",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_roster_snapshots_created ON roster_snapshots(created_at)`)
			return err
		},
	},
}
