package testsupport

import (
	"context"
	"testing"

	"paperarchive/internal/config"
	"paperarchive/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginSession starts a journal session for tests.
func BeginSession(t testing.TB, store *journal.Store, id string, source journal.Source) {
	t.Helper()

	if err := store.BeginSession(context.Background(), id, source, false); err != nil {
		t.Fatalf("store.BeginSession: %v", err)
	}
}
