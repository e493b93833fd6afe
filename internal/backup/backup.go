// Package backup exports the newest character snapshot as a gzip-compressed
// JSON file in the data source format. "roster import -file" reads the file
// back, so an export doubles as an offline copy of the collection.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/pkg/models"
)

// Export writes the latest snapshot in repo to outputPath. The file is
// written under a temporary name and renamed into place, so a failed export
// never leaves a truncated file behind.
func Export(ctx context.Context, repo services.SnapshotRepository, outputPath string) (*services.Snapshot, error) {
	snap, records, err := repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read latest snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".roster-export-*")
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := writeRecords(tmp, records); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return nil, fmt.Errorf("moving export into place: %w", err)
	}
	return snap, nil
}

func writeRecords(f *os.File, records []models.Character) error {
	gw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(gw).Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("flushing gzip stream: %w", err)
	}
	return nil
}
