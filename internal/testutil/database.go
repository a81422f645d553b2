// Package testutil provides shared helpers for tests: migrated in-memory
// stores and a fluent builder for snapshots.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// TestStore is a migrated in-memory partitions store bound to a test.
type TestStore struct {
	*storage.SQLiteStorage
	t *testing.T
}

// SetupTestStore creates an empty in-memory store. It is closed when the
// test ends.
//
// Example:
//
//	store := testutil.SetupTestStore(t)
//	ctrl := tracker.New(store, nil, tracker.Options{})
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	s, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	return &TestStore{SQLiteStorage: s, t: t}
}

// SetupTestStoreWith creates a store already holding snap.
//
// Example:
//
//	store := testutil.SetupTestStoreWith(t, testutil.NewSnapshotBuilder().
//		WithTransaction("2024-05-03", "c1", 20).
//		Build())
func SetupTestStoreWith(t *testing.T, snap model.Snapshot) *TestStore {
	t.Helper()

	s := SetupTestStore(t)
	if err := storage.SaveSnapshot(context.Background(), s, snap); err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}
	return s
}

// Snapshot reads back every partition.
func (s *TestStore) Snapshot() model.Snapshot {
	s.t.Helper()
	return storage.LoadSnapshot(context.Background(), s)
}

// MustRaw returns the raw value under key or fails the test.
func (s *TestStore) MustRaw(key string) []byte {
	s.t.Helper()
	raw, found, err := s.GetRaw(context.Background(), key)
	if err != nil {
		s.t.Fatalf("failed to read %s: %v", key, err)
	}
	if !found {
		s.t.Fatalf("partition %s not found", key)
	}
	return raw
}
