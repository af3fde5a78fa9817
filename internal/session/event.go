package session

import "github.com/rcliao/captains-log/internal/model"

// EventType identifies a session event.
type EventType string

const (
	EventStart   EventType = "start"
	EventInterim EventType = "interim"
	EventResult  EventType = "result"
	EventError   EventType = "error"
	EventEnd     EventType = "end"
)

// Event is emitted by the Manager. Per session the order is start, then any
// number of interim and result events, then an optional error, then end.
type Event struct {
	Type      EventType
	SessionID string

	// Timestamp is the session start time in epoch milliseconds (start only).
	Timestamp int64

	// Text is the live partial transcript (interim only). Empty clears it.
	Text string

	// Result is the finalized utterance (result only).
	Result *model.TranscriptionResult

	// Err is the recognizer error (error only).
	Err *RecognitionError
}

// State is the manager state.
type State int

const (
	Idle State = iota
	Listening
)

func (s State) String() string {
	if s == Listening {
		return "listening"
	}
	return "idle"
}
