package notes

import "errors"

// ErrNotFound indicates no note has the requested id.
var ErrNotFound = errors.New("note not found")
