package notes

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/store"
)

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		cur := t
		t = t.Add(step)
		return cur
	}
}

func newTestRepo(t *testing.T) (*Repository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	r, err := Open(context.Background(), s, WithClock(stepClock(time.UnixMilli(1_700_000_000_000), time.Millisecond)))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	return r, s
}

func lines(texts ...string) []model.TranscriptionResult {
	var out []model.TranscriptionResult
	for _, tx := range texts {
		out = append(out, model.TranscriptionResult{Text: tx, Confidence: 0.9, IsFinal: true, Timestamp: 1, SessionID: "session_x"})
	}
	return out
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	n, err := r.CreateNote(ctx, "First log", lines("hello"), []string{"ops"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == "" {
		t.Fatal("expected id")
	}
	if n.Folder != model.DefaultFolder {
		t.Errorf("expected default folder, got %q", n.Folder)
	}
	if n.CreatedAt != n.UpdatedAt {
		t.Errorf("expected createdAt == updatedAt on create")
	}

	got, err := r.GetNote(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "First log" || len(got.Content) != 1 || got.Content[0].Text != "hello" {
		t.Errorf("unexpected note %+v", got)
	}
	if got.Tags[0] != "ops" {
		t.Errorf("unexpected tags %v", got.Tags)
	}
}

func TestCreateDefaultsEmptyCollections(t *testing.T) {
	r, s := newTestRepo(t)

	n, _ := r.CreateNote(context.Background(), "bare", nil, nil, "")
	if n.Content == nil || n.Tags == nil {
		t.Fatal("expected non-nil content and tags")
	}

	raw, _, _ := s.GetItem(context.Background(), store.NotesKey)
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded[0]["content"].([]any); !ok {
		t.Errorf("expected content to be a JSON array, got %v", decoded[0]["content"])
	}
	for _, k := range []string{"id", "title", "content", "tags", "folder", "createdAt", "updatedAt"} {
		if _, ok := decoded[0][k]; !ok {
			t.Errorf("missing JSON key %q", k)
		}
	}
}

func TestIDsUnique(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n, _ := r.CreateNote(ctx, "n", nil, nil, "")
		if seen[n.ID] {
			t.Fatalf("duplicate id %s", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	// Frozen clock: updatedAt must still advance strictly.
	frozen := time.UnixMilli(1_700_000_000_000)
	r, _ := Open(ctx, s, WithClock(func() time.Time { return frozen }))

	n, _ := r.CreateNote(ctx, "title", nil, nil, "")
	u1, err := r.UpdateNote(ctx, n.ID, NoteUpdate{Title: Ptr("renamed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	u2, _ := r.UpdateNote(ctx, n.ID, NoteUpdate{})

	if u1.UpdatedAt <= n.UpdatedAt || u2.UpdatedAt <= u1.UpdatedAt {
		t.Errorf("updatedAt did not advance: %d, %d, %d", n.UpdatedAt, u1.UpdatedAt, u2.UpdatedAt)
	}
	if u2.ID != n.ID || u2.CreatedAt != n.CreatedAt {
		t.Error("id or createdAt changed")
	}
	if u2.Title != "renamed" {
		t.Errorf("expected title kept, got %q", u2.Title)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	n, _ := r.CreateNote(ctx, "t", lines("a"), []string{"x"}, "Bank A")
	u, err := r.UpdateNote(ctx, n.ID, NoteUpdate{
		Tags:   Ptr([]string{"x", "y"}),
		Folder: Ptr("Bank B"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if u.Title != "t" || len(u.Content) != 1 {
		t.Error("untouched fields changed")
	}
	if len(u.Tags) != 2 || u.Folder != "Bank B" {
		t.Errorf("unexpected merge result %+v", u)
	}
}

func TestUpdateDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	if _, err := r.UpdateNote(ctx, "missing", NoteUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := r.DeleteNote(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.GetNote("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	a, _ := r.CreateNote(ctx, "a", nil, nil, "")
	b, _ := r.CreateNote(ctx, "b", nil, nil, "")

	if err := r.DeleteNote(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all := r.GetNotes(nil, nil)
	if len(all) != 1 || all[0].ID != b.ID {
		t.Errorf("unexpected remaining notes %v", all)
	}
}

func TestPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "log.db")

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := Open(ctx, s)
	a, _ := r.CreateNote(ctx, "keep", lines("one"), []string{"t"}, "Ops")
	b, _ := r.CreateNote(ctx, "drop", nil, nil, "")
	r.UpdateNote(ctx, a.ID, NoteUpdate{Title: Ptr("kept")})
	r.DeleteNote(ctx, b.ID)
	s.Close()

	s2, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	r2, err := Open(ctx, s2)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	all := r2.GetNotes(nil, nil)
	if len(all) != 1 {
		t.Fatalf("expected 1 note after reopen, got %d", len(all))
	}
	if all[0].Title != "kept" || all[0].Folder != "Ops" || all[0].Content[0].Text != "one" {
		t.Errorf("unexpected reloaded note %+v", all[0])
	}
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	r, s := newTestRepo(t)
	s.FailWrites = errors.New("quota exceeded")

	n, err := r.CreateNote(ctx, "volatile", nil, nil, "")
	if !store.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, err := r.GetNote(n.ID); err != nil {
		t.Error("expected note kept in memory")
	}
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	s.SetItem(ctx, store.NotesKey, "{not json")

	if _, err := Open(ctx, s); err == nil {
		t.Error("expected decode error")
	}
}

func TestReturnedNotesAreCopies(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t)

	n, _ := r.CreateNote(ctx, "t", nil, []string{"a"}, "")
	n.Tags[0] = "mutated"

	got, _ := r.GetNote(n.ID)
	if got.Tags[0] != "a" {
		t.Error("repository state leaked through returned note")
	}
}
