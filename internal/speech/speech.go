// Package speech defines the speech-recognition capability consumed by the
// session manager, plus the recognizers that ship with the journal.
package speech

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en-US"

// ErrBusy is returned by Start when the recognizer is already running.
var ErrBusy = errors.New("recognizer already running")

// Options configures one recognition run.
type Options struct {
	// Language is a BCP 47 tag such as "en-US". Empty means recognizer default.
	Language string

	// Continuous keeps recognition active across pauses.
	Continuous bool

	// InterimResults enables partial, not-yet-final updates.
	InterimResults bool
}

// Update is a recognition result delivered by a recognizer.
type Update struct {
	Transcript string
	Confidence float64
	Final      bool
}

// Callbacks receive recognizer output. Any field may be nil.
// A run delivers zero or more Result/Level/Error calls and exactly one End.
type Callbacks struct {
	OnResult func(Update)
	OnError  func(msg string)
	OnEnd    func()
	// OnLevel receives the raw microphone level in 0..1.
	OnLevel func(level float64)
}

func (c Callbacks) Result(u Update) {
	if c.OnResult != nil {
		c.OnResult(u)
	}
}

func (c Callbacks) Error(msg string) {
	if c.OnError != nil {
		c.OnError(msg)
	}
}

func (c Callbacks) End() {
	if c.OnEnd != nil {
		c.OnEnd()
	}
}

func (c Callbacks) Level(v float64) {
	if c.OnLevel != nil {
		c.OnLevel(v)
	}
}

// Recognizer is a speech-recognition capability.
type Recognizer interface {
	// Name returns the recognizer name (for logging).
	Name() string

	// Supported reports whether the capability is available at all.
	Supported() bool

	// Start begins a recognition run. Output arrives through cb, possibly on
	// another goroutine, until cb.OnEnd is called.
	Start(ctx context.Context, opts Options, cb Callbacks) error

	// Stop asks the current run to end. It is best-effort: a few queued
	// results may still arrive before OnEnd.
	Stop() error
}

var availableLanguages = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("es-ES"),
	language.MustParse("fr-FR"),
	language.MustParse("de-DE"),
}

// AvailableLanguages returns the language tags offered to users.
func AvailableLanguages() []string {
	out := make([]string, len(availableLanguages))
	for i, t := range availableLanguages {
		out[i] = t.String()
	}
	return out
}

// ParseLanguage validates a BCP 47 tag and returns its canonical form.
// An empty string yields DefaultLanguage.
func ParseLanguage(s string) (string, error) {
	if s == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	return tag.String(), nil
}

// NormalizeLevel maps a 0..1 level onto the 0-9 signal strength scale.
func NormalizeLevel(v float64) int {
	n := int(math.Floor(v * 10))
	if n < 0 {
		return 0
	}
	if n > 9 {
		return 9
	}
	return n
}
