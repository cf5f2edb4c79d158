package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"slimsamples/internal/config"
	"slimsamples/internal/journal"
)

// runReview lists files a previous run left inconsistent.
func runReview(ctx context.Context, out io.Writer, cfg *config.Config) error {
	path := cfg.JournalPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(out, "No journal at %s\n", path)
			return nil
		}
		return fmt.Errorf("stat journal: %w", err)
	}

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Inconsistent(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No inconsistent files recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		recorded := ""
		if !entry.RecordedAt.IsZero() {
			recorded = entry.RecordedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{entry.Path, entry.Backup, entry.Error, recorded})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Backup", "Error", "Recorded"}, rows, nil))
	return nil
}
