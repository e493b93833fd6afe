package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/HerbHall/roster/internal/backup"
)

func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	output := fs.String("output", "", "output file path (default: roster-{timestamp}.json.gz)")
	configPath := fs.String("config", "", "path to configuration file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if *output == "" {
		*output = fmt.Sprintf("roster-%s.json.gz", time.Now().Format("20060102-150405"))
	}

	ctx := context.Background()
	db, repo, err := snapshots(ctx, s.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open snapshot store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	snap, err := backup.Export(ctx, repo, *output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Backup created: %s (%d characters from snapshot %s)\n", *output, snap.Count, snap.ID)
}
