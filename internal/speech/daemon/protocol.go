// Package daemon implements a speech.Recognizer backed by an external speech
// daemon speaking NDJSON over a Unix socket.
package daemon

// Command is sent from a client to the daemon.
type Command struct {
	Cmd            string   `json:"cmd"`
	Locale         string   `json:"locale,omitempty"`
	Continuous     *bool    `json:"continuous,omitempty"`
	InterimResults *bool    `json:"interimResults,omitempty"`
	Events         []string `json:"events,omitempty"`
}

// Response is returned by the daemon after processing a command.
type Response struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Recording *bool  `json:"recording,omitempty"`
	Error     string `json:"error,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Event is streamed from the daemon to subscribed clients.
type Event struct {
	Event      string   `json:"event"`
	Text       string   `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Mic        *float32 `json:"mic,omitempty"`
	SessionID  string   `json:"sessionId,omitempty"`
	Message    string   `json:"message,omitempty"`
	Transient  *bool    `json:"transient,omitempty"`
	Recording  *bool    `json:"recording,omitempty"`
}

// Event names.
const (
	EventPartial = "partial"
	EventSegment = "segment"
	EventLevel   = "level"
	EventError   = "error"
	EventStatus  = "status"
)

// SubscribedEvents is the event set requested on subscribe.
var SubscribedEvents = []string{EventPartial, EventSegment, EventLevel, EventError, EventStatus}

// BoolPtr returns a pointer to a bool value. Convenience for building commands.
func BoolPtr(b bool) *bool { return &b }
