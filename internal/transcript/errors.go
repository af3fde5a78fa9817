package transcript

import "errors"

// ErrEmpty is returned when exporting or saving an empty transcript.
var ErrEmpty = errors.New("transcript is empty")
