package notes

import "sort"

// Stats holds repository statistics.
type Stats struct {
	TotalNotes   int           `json:"total_notes"`
	TotalEntries int           `json:"total_entries"`
	TotalTags    int           `json:"total_tags"`
	Folders      []FolderStats `json:"folders"`
}

// FolderStats holds per-folder counts.
type FolderStats struct {
	Folder  string `json:"folder"`
	Notes   int    `json:"notes"`
	Entries int    `json:"entries"`
}

// Stats returns note counts overall and per folder, largest folder first.
func (r *Repository) Stats() Stats {
	tags := len(r.GetAllTags())

	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{TotalNotes: len(r.notes), TotalTags: tags}
	idx := map[string]int{}
	for _, n := range r.notes {
		st.TotalEntries += len(n.Content)
		i, ok := idx[n.Folder]
		if !ok {
			i = len(st.Folders)
			idx[n.Folder] = i
			st.Folders = append(st.Folders, FolderStats{Folder: n.Folder})
		}
		st.Folders[i].Notes++
		st.Folders[i].Entries += len(n.Content)
	}

	sort.SliceStable(st.Folders, func(a, b int) bool {
		return st.Folders[a].Notes > st.Folders[b].Notes
	})
	return st
}
