// Package notes implements the note repository: an ordered in-memory list of
// notes mirrored as a whole JSON document into local storage.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/store"
)

// Repository owns the note list. All methods are safe for concurrent use.
type Repository struct {
	mu      sync.Mutex
	storage store.Storage
	notes   []model.Note
	entropy *rand.Rand
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// Open loads the note list from storage. A missing key yields an empty repository.
func Open(ctx context.Context, storage store.Storage, opts ...Option) (*Repository, error) {
	r := &Repository{
		storage: storage,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	raw, ok, err := storage.GetItem(ctx, store.NotesKey)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &r.notes); err != nil {
			return nil, fmt.Errorf("decode notes: %w", err)
		}
	}
	for i := range r.notes {
		normalize(&r.notes[i])
	}
	r.logger.Debug("notes loaded", "count", len(r.notes))
	return r, nil
}

func (r *Repository) newID() string {
	return "note_" + strings.ToLower(ulid.MustNew(ulid.Timestamp(r.now()), r.entropy).String())
}

// save writes the whole note list. Caller holds r.mu.
func (r *Repository) save(ctx context.Context) error {
	b, err := json.Marshal(r.notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := r.storage.SetItem(ctx, store.NotesKey, string(b)); err != nil {
		r.logger.Error("persist notes failed", "err", err, "count", len(r.notes))
		return err
	}
	return nil
}

func (r *Repository) indexOf(id string) int {
	for i, n := range r.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// CreateNote appends a new note and persists the list. An empty folder means
// model.DefaultFolder. On a persistence error the note is still kept in memory
// and returned alongside the error.
func (r *Repository) CreateNote(ctx context.Context, title string, content []model.TranscriptionResult, tags []string, folder string) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if folder == "" {
		folder = model.DefaultFolder
	}
	ts := r.now().UnixMilli()
	n := model.Note{
		ID:        r.newID(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		Folder:    folder,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	normalize(&n)
	n = n.Clone()

	r.notes = append(r.notes, n)
	r.logger.Debug("note created", "id", n.ID, "folder", folder, "entries", len(content))
	return n.Clone(), r.save(ctx)
}

// NoteUpdate lists the fields to change. Nil fields are left untouched.
type NoteUpdate struct {
	Title   *string
	Content *[]model.TranscriptionResult
	Tags    *[]string
	Folder  *string
}

// Ptr returns a pointer to v. Handy for building a NoteUpdate.
func Ptr[T any](v T) *T { return &v }

// UpdateNote merges u into the note with the given id. UpdatedAt always
// advances, even when u changes nothing.
func (r *Repository) UpdateNote(ctx context.Context, id string, u NoteUpdate) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	n := r.notes[i]
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = append([]model.TranscriptionResult{}, (*u.Content)...)
	}
	if u.Tags != nil {
		n.Tags = append([]string{}, (*u.Tags)...)
	}
	if u.Folder != nil {
		n.Folder = *u.Folder
		if n.Folder == "" {
			n.Folder = model.DefaultFolder
		}
	}

	ts := r.now().UnixMilli()
	if ts <= n.UpdatedAt {
		ts = n.UpdatedAt + 1
	}
	n.UpdatedAt = ts

	r.notes[i] = n
	r.logger.Debug("note updated", "id", id)
	return n.Clone(), r.save(ctx)
}

// DeleteNote removes the note with the given id.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.notes = append(r.notes[:i], r.notes[i+1:]...)
	r.logger.Debug("note deleted", "id", id)
	return r.save(ctx)
}

// GetNote returns a copy of the note with the given id.
func (r *Repository) GetNote(id string) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.notes[i].Clone(), nil
}

// Len returns the number of notes.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

// normalize keeps the JSON shape stable: arrays are never null and folder is never empty.
func normalize(n *model.Note) {
	if n.Content == nil {
		n.Content = []model.TranscriptionResult{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Folder == "" {
		n.Folder = model.DefaultFolder
	}
}
