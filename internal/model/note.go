// Package model defines the core journal data types.
package model

import "time"

// DefaultFolder is the folder a note lands in when none is given.
const DefaultFolder = "Main Memory"

// TranscriptionResult is one finalized utterance produced by a recognition session.
// Timestamp is epoch milliseconds.
type TranscriptionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"isFinal"`
	Timestamp  int64   `json:"timestamp"`
	SessionID  string  `json:"sessionId"`
	Language   string  `json:"language,omitempty"`
}

// Time returns the result timestamp as a time.Time.
func (r TranscriptionResult) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Note is a saved journal entry.
type Note struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Content   []TranscriptionResult `json:"content"`
	Tags      []string              `json:"tags"`
	Folder    string                `json:"folder"`
	CreatedAt int64                 `json:"createdAt"`
	UpdatedAt int64                 `json:"updatedAt"`
}

// Clone returns a deep copy of n.
func (n Note) Clone() Note {
	c := n
	c.Content = append([]TranscriptionResult{}, n.Content...)
	c.Tags = append([]string{}, n.Tags...)
	return c
}

// NoteFilter narrows a note listing. Zero-valued fields are ignored.
// StartDate and EndDate are inclusive epoch-ms bounds on CreatedAt.
type NoteFilter struct {
	SearchText string
	Tags       []string
	Folder     string
	StartDate  int64
	EndDate    int64
}

// SortField names a note field usable for ordering.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// SortOptions orders a note listing.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// ValidSortFields are the allowed sort fields.
var ValidSortFields = map[SortField]bool{
	SortByTitle:     true,
	SortByCreatedAt: true,
	SortByUpdatedAt: true,
}
