package tui

import "github.com/rcliao/captains-log/internal/model"

// StateChangedMsg is sent when the transcript controller changed state.
type StateChangedMsg struct{}

// ActionErrMsg reports a failed start, stop or clear.
type ActionErrMsg struct {
	Action string
	Err    error
}

// ExportedMsg carries the result of writing an export file.
type ExportedMsg struct {
	Path string
	Err  error
}

// SavedMsg carries the result of saving the transcript as a note.
type SavedMsg struct {
	Note model.Note
	Err  error
}

// clearMessageMsg clears the footer message after a delay.
type clearMessageMsg struct{ seq int }
