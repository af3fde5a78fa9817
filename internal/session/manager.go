// Package session wraps a speech recognizer in a session-scoped event stream.
//
// A Manager is idle until Start, listening until the recognizer ends or
// fails, and idle again afterwards. Every run gets a fresh session id; output
// from a run that has already ended is dropped.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/speech"
)

// Manager owns one recognizer and at most one session at a time.
type Manager struct {
	rec    speech.Recognizer
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	current  *run
	interim  string
	subs     []subscriber
	nextSub  int
	levels   []func(int)
	queue    []Event
	flushing bool
}

// run is one recognition session.
type run struct {
	id        string
	startedAt int64
	language  string
	done      bool
}

type subscriber struct {
	id int
	fn func(Event)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the time source for session start times.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// New returns an idle Manager driving rec.
func New(rec speech.Recognizer, opts ...Option) *Manager {
	m := &Manager{
		rec:    rec,
		logger: slog.Default(),
		now:    time.Now,
		newID:  newSessionID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newSessionID() string {
	return "session_" + uuid.Must(uuid.NewV7()).String()
}

// DefaultOptions returns continuous recognition with interim results.
func DefaultOptions(lang string) speech.Options {
	return speech.Options{Language: lang, Continuous: true, InterimResults: true}
}

// IsSupported reports whether the recognizer is available.
func (m *Manager) IsSupported() bool {
	return m.rec != nil && m.rec.Supported()
}

// IsListening reports whether a session is active.
func (m *Manager) IsListening() bool {
	return m.State() == Listening
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return Listening
	}
	return Idle
}

// SessionID returns the active session id, or "" when idle.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.id
}

// Interim returns the pending partial transcript.
func (m *Manager) Interim() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interim
}

// AvailableLanguages returns the selectable recognition languages.
func (m *Manager) AvailableLanguages() []string {
	return speech.AvailableLanguages()
}

// Subscribe registers fn for every event. Events are delivered in emission
// order and never concurrently; fn may call back into the Manager.
// The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// OnLevel registers fn for the 0-9 audio level while listening.
func (m *Manager) OnLevel(fn func(int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = append(m.levels, fn)
}

// Start begins a new session. An active session is ended first.
func (m *Manager) Start(ctx context.Context, opts speech.Options) error {
	if !m.IsSupported() {
		return ErrUnsupported
	}
	lang, err := speech.ParseLanguage(opts.Language)
	if err != nil {
		return err
	}
	opts.Language = lang

	m.mu.Lock()
	prev := m.current
	if prev != nil {
		m.finishLocked(prev)
	}
	m.mu.Unlock()
	if prev != nil {
		m.logger.Debug("replacing active session", "session", prev.id)
		if err := m.rec.Stop(); err != nil {
			m.logger.Warn("stop previous session", "session", prev.id, "err", err)
		}
		m.flush()
	}

	r := &run{id: m.newID(), startedAt: m.now().UnixMilli(), language: lang}

	// The run is current before the recognizer starts so that callbacks
	// arriving from another goroutine are not mistaken for stale ones.
	m.mu.Lock()
	m.current = r
	m.interim = ""
	m.enqueueLocked(Event{Type: EventStart, SessionID: r.id, Timestamp: r.startedAt})
	m.mu.Unlock()

	if err := m.rec.Start(ctx, opts, m.callbacks(r)); err != nil {
		m.mu.Lock()
		m.abortLocked(r)
		m.mu.Unlock()
		m.flush()
		return fmt.Errorf("start recognition: %w", err)
	}

	m.logger.Debug("session started", "session", r.id, "recognizer", m.rec.Name(), "language", lang)
	m.flush()
	return nil
}

// Stop asks the recognizer to end the session. The end event follows when
// the recognizer confirms. No-op when idle.
func (m *Manager) Stop() error {
	m.mu.Lock()
	r := m.current
	m.mu.Unlock()
	if r == nil {
		return nil
	}
	m.logger.Debug("stopping session", "session", r.id)
	if err := m.rec.Stop(); err != nil {
		return fmt.Errorf("stop recognition: %w", err)
	}
	return nil
}

// Close stops any active session and drops all listeners.
func (m *Manager) Close() error {
	err := m.Stop()
	m.mu.Lock()
	m.subs = nil
	m.levels = nil
	m.mu.Unlock()
	return err
}

func (m *Manager) callbacks(r *run) speech.Callbacks {
	return speech.Callbacks{
		OnResult: func(u speech.Update) { m.handleResult(r, u) },
		OnError:  func(msg string) { m.handleError(r, msg) },
		OnEnd:    func() { m.handleEnd(r) },
		OnLevel:  func(v float64) { m.handleLevel(r, v) },
	}
}

func (m *Manager) handleResult(r *run, u speech.Update) {
	text := strings.TrimSpace(u.Transcript)

	m.mu.Lock()
	if r.done {
		m.mu.Unlock()
		return
	}
	if u.Final {
		m.interim = ""
		m.enqueueLocked(Event{Type: EventInterim, SessionID: r.id})
		m.enqueueLocked(Event{Type: EventResult, SessionID: r.id, Result: &model.TranscriptionResult{
			Text:       text,
			Confidence: u.Confidence,
			IsFinal:    true,
			Timestamp:  r.startedAt,
			SessionID:  r.id,
			Language:   r.language,
		}})
	} else {
		m.interim = text
		m.enqueueLocked(Event{Type: EventInterim, SessionID: r.id, Text: text})
	}
	m.mu.Unlock()
	m.flush()
}

func (m *Manager) handleError(r *run, msg string) {
	m.mu.Lock()
	if r.done {
		m.mu.Unlock()
		return
	}
	m.enqueueLocked(Event{Type: EventError, SessionID: r.id, Err: &RecognitionError{Message: msg, SessionID: r.id}})
	m.finishLocked(r)
	m.mu.Unlock()

	m.logger.Warn("recognition error", "session", r.id, "message", msg)
	m.flush()
}

func (m *Manager) handleEnd(r *run) {
	m.mu.Lock()
	if r.done {
		m.mu.Unlock()
		return
	}
	m.finishLocked(r)
	m.mu.Unlock()

	m.logger.Debug("session ended", "session", r.id)
	m.flush()
}

func (m *Manager) handleLevel(r *run, v float64) {
	m.mu.Lock()
	if r.done {
		m.mu.Unlock()
		return
	}
	fns := append([]func(int){}, m.levels...)
	m.mu.Unlock()

	level := speech.NormalizeLevel(v)
	for _, fn := range fns {
		fn(level)
	}
}

// finishLocked ends r: clears the interim text, queues end and goes idle.
func (m *Manager) finishLocked(r *run) {
	r.done = true
	if m.current == r {
		m.current = nil
	}
	m.interim = ""
	m.enqueueLocked(Event{Type: EventInterim, SessionID: r.id})
	m.enqueueLocked(Event{Type: EventEnd, SessionID: r.id})
}

// abortLocked undoes a run whose recognizer never started. If its start
// event already went out, the run is finished normally instead.
func (m *Manager) abortLocked(r *run) {
	if r.done {
		return
	}
	for i, ev := range m.queue {
		if ev.Type == EventStart && ev.SessionID == r.id {
			m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
			r.done = true
			if m.current == r {
				m.current = nil
			}
			return
		}
	}
	m.finishLocked(r)
}

func (m *Manager) enqueueLocked(ev Event) {
	m.queue = append(m.queue, ev)
}

// flush delivers queued events. Only one goroutine delivers at a time;
// events queued meanwhile, including by listeners, are delivered by it.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.flushing {
		m.mu.Unlock()
		return
	}
	m.flushing = true
	for len(m.queue) > 0 {
		ev := m.queue[0]
		m.queue = m.queue[1:]
		subs := append([]subscriber{}, m.subs...)
		m.mu.Unlock()
		for _, s := range subs {
			s.fn(ev)
		}
		m.mu.Lock()
	}
	m.flushing = false
	m.mu.Unlock()
}
