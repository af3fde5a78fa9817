package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.SetItem(ctx, NotesKey, `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := s.GetItem(ctx, NotesKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got != `[{"id":"a"}]` {
		t.Errorf("unexpected value %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetItem(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetItem(ctx, TranscriptionsKey, "[]")
	s.SetItem(ctx, TranscriptionsKey, `[{"text":"one"}]`)

	got, _, _ := s.GetItem(ctx, TranscriptionsKey)
	if got != `[{"text":"one"}]` {
		t.Errorf("expected latest value, got %q", got)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SizeBytes != len(`[{"text":"one"}]`) {
		t.Errorf("unexpected size %d", entries[0].SizeBytes)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SetItem(ctx, TranscriptionsKey, "[]")
	if err := s.RemoveItem(ctx, TranscriptionsKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, TranscriptionsKey); ok {
		t.Error("expected key removed")
	}

	// Removing again is fine
	if err := s.RemoveItem(ctx, TranscriptionsKey); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "log.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.SetItem(ctx, NotesKey, "[]")
	s.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	if _, ok, _ := s2.GetItem(ctx, NotesKey); !ok {
		t.Error("expected value to survive reopen")
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestMemoryStoreFailWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.FailWrites = errors.New("disk full")

	err := m.SetItem(ctx, NotesKey, "[]")
	if !IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !errors.Is(err, m.FailWrites) {
		t.Error("expected wrapped cause")
	}
}
