// Package transcript turns session events into observable transcript state.
//
// The Controller accumulates finalized results, mirrors them into local
// storage, tracks the listening flag and the last error, and enforces the
// per-session recording limit.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rcliao/captains-log/internal/model"
	"github.com/rcliao/captains-log/internal/schedule"
	"github.com/rcliao/captains-log/internal/session"
	"github.com/rcliao/captains-log/internal/speech"
	"github.com/rcliao/captains-log/internal/store"
)

// DefaultLimit is the recording limit per listening session.
const DefaultLimit = 20 * time.Second

// Session is the part of session.Manager the controller drives.
type Session interface {
	Subscribe(fn func(session.Event)) func()
	OnLevel(fn func(int))
	Start(ctx context.Context, opts speech.Options) error
	Stop() error
	IsSupported() bool
}

// NoteCreator stores a transcript as a note.
type NoteCreator interface {
	CreateNote(ctx context.Context, title string, content []model.TranscriptionResult, tags []string, folder string) (model.Note, error)
}

// State is a point-in-time view of the controller.
type State struct {
	Supported      bool
	Listening      bool
	Transcript     []model.TranscriptionResult
	Interim        string
	Error          string
	Remaining      int
	SignalStrength int
	Status         Status
}

// Controller bridges a session to transcript state.
type Controller struct {
	sess    Session
	storage store.Storage
	sched   schedule.Scheduler
	limit   int
	logger  *slog.Logger

	mu        sync.Mutex
	supported bool
	results   []model.TranscriptionResult
	interim   string
	listening bool
	errMsg    string
	remaining int
	level     int
	status    Status
	booting   bool
	ticker    schedule.Task
	tickGen   int
	statusJob schedule.Task
	watchers  []func()
	tasks     schedule.Group
	unsub     func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the scheduler for the countdown and status steps.
// Defaults to schedule.Real.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithLimit sets the recording limit, rounded down to whole seconds.
func WithLimit(d time.Duration) Option {
	return func(c *Controller) {
		if secs := int(d / time.Second); secs > 0 {
			c.limit = secs
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New loads the saved transcript and subscribes to sess.
func New(ctx context.Context, sess Session, storage store.Storage, opts ...Option) (*Controller, error) {
	c := &Controller{
		sess:    sess,
		storage: storage,
		sched:   schedule.Real{},
		limit:   int(DefaultLimit / time.Second),
		logger:  slog.Default(),
		status:  StatusStandby,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.remaining = c.limit

	raw, ok, err := storage.GetItem(ctx, store.TranscriptionsKey)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.results); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	}
	if c.results == nil {
		c.results = []model.TranscriptionResult{}
	}

	c.supported = sess.IsSupported()
	c.unsub = sess.Subscribe(c.handle)
	sess.OnLevel(c.setLevel)
	c.logger.Debug("transcript loaded", "entries", len(c.results), "supported", c.supported)
	return c, nil
}

// Boot shows the initializing status for BootDelay, then standby.
func (c *Controller) Boot() {
	c.mu.Lock()
	c.booting = true
	c.status = StatusInitializing
	c.mu.Unlock()

	c.tasks.After(c.sched, BootDelay, func() {
		c.mu.Lock()
		c.booting = false
		if !c.listening {
			c.status = StatusStandby
		}
		c.mu.Unlock()
		c.notify()
	})
	c.notify()
}

// OnChange registers fn to run after every state change.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// Start starts a listening session. A failure is also recorded as the
// current error.
func (c *Controller) Start(ctx context.Context, opts speech.Options) error {
	err := c.sess.Start(ctx, opts)
	if err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		if errors.Is(err, session.ErrUnsupported) {
			c.supported = false
		}
		c.mu.Unlock()
		c.notify()
	}
	return err
}

// Stop asks the session to stop.
func (c *Controller) Stop() error {
	return c.sess.Stop()
}

// Snapshot returns the current state. The transcript is a copy. Support is
// resolved once in New and only revised by a Start that reports
// ErrUnsupported.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Supported:      c.supported,
		Listening:      c.listening,
		Transcript:     append([]model.TranscriptionResult{}, c.results...),
		Interim:        c.interim,
		Error:          c.errMsg,
		Remaining:      c.remaining,
		SignalStrength: c.level,
		Status:         c.status,
	}
}

// Results returns a copy of the finalized transcript.
func (c *Controller) Results() []model.TranscriptionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.TranscriptionResult{}, c.results...)
}

// ClearTranscription empties the transcript and removes the stored copy.
func (c *Controller) ClearTranscription(ctx context.Context) error {
	c.mu.Lock()
	c.results = []model.TranscriptionResult{}
	c.interim = ""
	err := c.storage.RemoveItem(ctx, store.TranscriptionsKey)
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("clear transcript", "err", err)
	}
	c.notify()
	return err
}

// Save stores the transcript as a note and clears it.
func (c *Controller) Save(ctx context.Context, notes NoteCreator, title string, tags []string, folder string) (model.Note, error) {
	content := c.Results()
	if len(content) == 0 {
		return model.Note{}, ErrEmpty
	}
	n, err := notes.CreateNote(ctx, title, content, tags, folder)
	if err != nil {
		return n, fmt.Errorf("save note: %w", err)
	}
	if err := c.ClearTranscription(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// Close cancels pending timers and unsubscribes from the session.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTickerLocked()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()

	c.tasks.CancelAll()
	if unsub != nil {
		unsub()
	}
}

func (c *Controller) handle(ev session.Event) {
	c.mu.Lock()
	switch ev.Type {
	case session.EventStart:
		c.listening = true
		c.errMsg = ""
		c.remaining = c.limit
		c.cancelTickerLocked()
		gen := c.tickGen
		c.ticker = c.tasks.Every(c.sched, time.Second, func() { c.tick(gen) })
		c.stepStatusLocked(StatusInitializing, ScanDelay, c.scanning)

	case session.EventInterim:
		c.interim = ev.Text

	case session.EventResult:
		if ev.Result != nil {
			c.results = append(c.results, *ev.Result)
			c.persistLocked()
		}

	case session.EventError:
		if ev.Err != nil {
			c.errMsg = ev.Err.Message
		}
		c.listening = false

	case session.EventEnd:
		c.listening = false
		c.interim = ""
		c.level = 0
		c.remaining = c.limit
		c.cancelTickerLocked()
		if c.booting {
			c.status = StatusInitializing
		} else {
			c.stepStatusLocked(StatusReady, StandbyDelay, func() { c.setStatus(StatusStandby, false) })
		}
	}
	c.mu.Unlock()
	c.notify()
}

// tick counts the recording limit down and stops the session at zero. Ticks
// from a cancelled ticker carry an old gen and are ignored.
func (c *Controller) tick(gen int) {
	c.mu.Lock()
	if !c.listening || gen != c.tickGen {
		c.mu.Unlock()
		return
	}
	c.remaining--
	expired := c.remaining <= 0
	if expired {
		c.remaining = c.limit
		c.cancelTickerLocked()
	}
	c.mu.Unlock()

	if expired {
		c.logger.Info("recording limit reached", "limit_seconds", c.limit)
		if err := c.sess.Stop(); err != nil {
			c.logger.Warn("stop at recording limit", "err", err)
		}
	}
	c.notify()
}

func (c *Controller) scanning() {
	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return
	}
	c.stepStatusLocked(StatusScanning, ProcessDelay, func() { c.setStatus(StatusProcessing, true) })
	c.mu.Unlock()
	c.notify()
}

// setStatus sets s if the listening flag still matches.
func (c *Controller) setStatus(s Status, listening bool) {
	c.mu.Lock()
	if c.listening != listening {
		c.mu.Unlock()
		return
	}
	c.status = s
	c.mu.Unlock()
	c.notify()
}

// stepStatusLocked sets s now and schedules next after d, replacing any
// pending status step.
func (c *Controller) stepStatusLocked(s Status, d time.Duration, next func()) {
	c.status = s
	if c.statusJob != nil {
		c.statusJob.Cancel()
	}
	c.statusJob = c.tasks.After(c.sched, d, next)
}

func (c *Controller) cancelTickerLocked() {
	c.tickGen++
	if c.ticker != nil {
		c.ticker.Cancel()
		c.ticker = nil
	}
}

func (c *Controller) setLevel(level int) {
	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return
	}
	c.level = level
	c.mu.Unlock()
	c.notify()
}

// persistLocked writes the whole transcript. Failures are logged.
func (c *Controller) persistLocked() {
	b, err := json.Marshal(c.results)
	if err != nil {
		c.logger.Error("encode transcript", "err", err)
		return
	}
	if err := c.storage.SetItem(context.Background(), store.TranscriptionsKey, string(b)); err != nil {
		c.logger.Error("persist transcript", "entries", len(c.results), "err", err)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fns := append([]func(){}, c.watchers...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
