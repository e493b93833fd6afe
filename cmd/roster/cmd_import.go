package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/internal/source"
)

const defaultKeep = 5

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	file := fs.String("file", "", "import from a local JSON file instead of the configured URL")
	keep := fs.Int("keep", defaultKeep, "number of snapshots to keep (0 keeps all)")
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

	var src source.Source = source.NewHTTPSource(s.Source.URL, s.Source.Timeout)
	if *file != "" {
		src = &source.FileSource{Path: *file}
	}

	ctx := context.Background()
	snap, err := importSnapshot(ctx, src, s.Store.Path, *keep, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d characters from %s into snapshot %s\n", snap.Count, snap.Source, snap.ID)
}

// importSnapshot fetches src once and stores the records as a new snapshot
// in the database at dbPath, pruning all but the newest keep snapshots.
func importSnapshot(ctx context.Context, src source.Source, dbPath string, keep int, logger *zap.Logger) (*services.Snapshot, error) {
	records, err := source.Load(ctx, src, logger)
	if err != nil {
		return nil, err
	}

	db, repo, err := snapshots(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	defer db.Close()

	snap, err := repo.Save(ctx, src.Name(), records)
	if err != nil {
		return nil, err
	}
	if keep > 0 {
		pruned, err := repo.Prune(ctx, keep)
		if err != nil {
			return nil, err
		}
		if pruned > 0 {
			logger.Info("pruned old snapshots", zap.Int("removed", pruned))
		}
	}
	return snap, nil
}
