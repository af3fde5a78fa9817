package notes

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rcliao/captains-log/internal/model"
)

// GetNotes returns copies of the notes matching filter, ordered by sort.
// A nil filter matches everything; a nil sort keeps repository order.
func (r *Repository) GetNotes(filter *model.NoteFilter, sort *model.SortOptions) []model.Note {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if filter != nil && !matches(n, *filter) {
			continue
		}
		out = append(out, n.Clone())
	}

	if sort != nil {
		sortNotes(out, *sort)
	}
	return out
}

func matches(n model.Note, f model.NoteFilter) bool {
	if f.SearchText != "" && !containsText(n, strings.ToLower(f.SearchText)) {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, tag := range f.Tags {
			if slices.Contains(n.Tags, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Folder != "" && n.Folder != f.Folder {
		return false
	}
	if f.StartDate != 0 && n.CreatedAt < f.StartDate {
		return false
	}
	if f.EndDate != 0 && n.CreatedAt > f.EndDate {
		return false
	}
	return true
}

// containsText matches the lowercased needle against title, content text and tags.
func containsText(n model.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) {
		return true
	}
	for _, c := range n.Content {
		if strings.Contains(strings.ToLower(c.Text), needle) {
			return true
		}
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func sortNotes(ns []model.Note, opts model.SortOptions) {
	dir := 1
	if opts.Direction == model.Desc {
		dir = -1
	}

	var cmp func(a, b model.Note) int
	switch opts.Field {
	case model.SortByTitle:
		col := collate.New(language.English)
		cmp = func(a, b model.Note) int { return col.CompareString(a.Title, b.Title) }
	case model.SortByCreatedAt:
		cmp = func(a, b model.Note) int { return compareInt(a.CreatedAt, b.CreatedAt) }
	case model.SortByUpdatedAt:
		cmp = func(a, b model.Note) int { return compareInt(a.UpdatedAt, b.UpdatedAt) }
	default:
		return
	}

	slices.SortStableFunc(ns, func(a, b model.Note) int { return cmp(a, b) * dir })
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// GetFolders returns the distinct folders in first-seen order.
func (r *Repository) GetFolders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	folders := []string{}
	for _, n := range r.notes {
		if !seen[n.Folder] {
			seen[n.Folder] = true
			folders = append(folders, n.Folder)
		}
	}
	return folders
}

// GetAllTags returns the distinct tags across all notes in first-seen order.
func (r *Repository) GetAllTags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	tags := []string{}
	for _, n := range r.notes {
		for _, tag := range n.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
