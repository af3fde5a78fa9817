package notes

import (
	"context"

	"github.com/rcliao/captains-log/internal/model"
)

// Export returns copies of all notes in repository order.
func (r *Repository) Export() []model.Note {
	return r.GetNotes(nil, nil)
}

// Import appends notes from an export. Notes whose id already exists are
// skipped; notes without an id get a fresh one. Returns the number imported.
func (r *Repository) Import(ctx context.Context, in []model.Note) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	imported := 0
	for _, n := range in {
		if n.ID != "" && r.indexOf(n.ID) >= 0 {
			continue
		}
		n = n.Clone()
		if n.ID == "" {
			n.ID = r.newID()
		}
		ts := r.now().UnixMilli()
		if n.CreatedAt == 0 {
			n.CreatedAt = ts
		}
		if n.UpdatedAt < n.CreatedAt {
			n.UpdatedAt = n.CreatedAt
		}
		normalize(&n)
		r.notes = append(r.notes, n)
		imported++
	}

	if imported == 0 {
		return 0, nil
	}
	r.logger.Debug("notes imported", "count", imported)
	return imported, r.save(ctx)
}
