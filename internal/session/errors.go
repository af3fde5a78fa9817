package session

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by Start when no speech recognizer is available.
var ErrUnsupported = errors.New("speech recognition not supported")

// RecognitionError is an error reported by the recognizer during a session.
type RecognitionError struct {
	Message   string
	SessionID string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition error: %s", e.Message)
}
