package testsupport

import (
	"context"
	"testing"

	"slimsamples/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, path string) *journal.Store {
	t.Helper()

	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginRun registers runID in store, failing the test on error.
func BeginRun(t testing.TB, store *journal.Store, runID, mode string) {
	t.Helper()

	if err := store.BeginRun(context.Background(), runID, mode); err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
}
