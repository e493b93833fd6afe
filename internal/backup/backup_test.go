package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/roster/internal/backup"
	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/internal/source"
	"github.com/HerbHall/roster/internal/testutil"
)

func newRepo(t *testing.T) *services.SQLiteSnapshotRepository {
	t.Helper()
	repo, err := services.NewSQLiteSnapshotRepository(context.Background(), testutil.NewStore(t))
	require.NoError(t, err)
	return repo
}

func TestExport_RoundTripsThroughFileSource(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	_, err := repo.Save(ctx, source.KindHTTP, testutil.Roster())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "roster.json.gz")
	snap, err := backup.Export(ctx, repo, out)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Count)

	records, err := (&source.FileSource{Path: out}).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.Roster(), records)
}

func TestExport_NoSnapshot(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "roster.json.gz")

	_, err := backup.Export(context.Background(), newRepo(t), out)
	assert.ErrorIs(t, err, services.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed export leaves no files")
}
