package daemon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rcliao/captains-log/internal/speech"
)

const dialTimeout = 500 * time.Millisecond

// Recognizer drives the speech daemon. Each run holds two connections:
// one for commands (start, stop) and one for the event subscription.
type Recognizer struct {
	socketPath string
	logger     *slog.Logger

	mu      sync.Mutex
	current *run
}

type run struct {
	client   *conn
	evClient *conn
	stopping atomic.Bool
}

// stopGrace bounds how long a stopped run waits for the daemon to confirm.
const stopGrace = 2 * time.Second

// New returns a Recognizer for the daemon listening on socketPath.
// If logger is nil, uses the default slog logger.
func New(socketPath string, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{socketPath: socketPath, logger: logger}
}

func (r *Recognizer) Name() string { return "daemon" }

// Supported reports whether the daemon accepts connections.
func (r *Recognizer) Supported() bool {
	c, err := dial(r.socketPath, dialTimeout)
	if err != nil {
		return false
	}
	c.Close()
	return true
}

func (r *Recognizer) Start(ctx context.Context, opts speech.Options, cb speech.Callbacks) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return speech.ErrBusy
	}

	client, err := dial(r.socketPath, dialTimeout)
	if err != nil {
		return err
	}
	evClient, err := dial(r.socketPath, dialTimeout)
	if err != nil {
		client.Close()
		return err
	}

	if _, err := evClient.call(Command{Cmd: "subscribe", Events: SubscribedEvents}); err != nil {
		client.Close()
		evClient.Close()
		return err
	}

	resp, err := client.call(Command{
		Cmd:            "start",
		Locale:         opts.Language,
		Continuous:     BoolPtr(opts.Continuous),
		InterimResults: BoolPtr(opts.InterimResults),
	})
	if err != nil {
		client.Close()
		evClient.Close()
		return err
	}

	rn := &run{client: client, evClient: evClient}
	r.current = rn
	r.logger.Debug("daemon recognition started", "socket", r.socketPath, "daemon_session", resp.SessionID)

	stopWatch := context.AfterFunc(ctx, func() {
		rn.stopping.Store(true)
		evClient.Close()
	})
	go r.readEvents(rn, opts, cb, stopWatch)
	return nil
}

// readEvents translates daemon events into callbacks until recording stops
// or the event stream breaks.
func (r *Recognizer) readEvents(rn *run, opts speech.Options, cb speech.Callbacks, stopWatch func() bool) {
	defer func() {
		stopWatch()
		r.release(rn)
		cb.End()
	}()

	for {
		ev, err := rn.evClient.next()
		if err != nil {
			if !rn.stopping.Load() {
				cb.Error(err.Error())
			}
			return
		}

		switch ev.Event {
		case EventPartial:
			if opts.InterimResults {
				cb.Result(speech.Update{Transcript: ev.Text})
			}

		case EventSegment:
			u := speech.Update{Transcript: ev.Text, Final: true}
			if ev.Confidence != nil {
				u.Confidence = *ev.Confidence
			}
			cb.Result(u)

		case EventLevel:
			if ev.Mic != nil {
				cb.Level(float64(*ev.Mic))
			}

		case EventError:
			if ev.Transient != nil && *ev.Transient {
				r.logger.Warn("transient daemon error", "message", ev.Message)
				continue
			}
			cb.Error(ev.Message)
			return

		case EventStatus:
			if ev.Recording != nil && !*ev.Recording {
				return
			}
		}
	}
}

func (r *Recognizer) release(rn *run) {
	rn.client.Close()
	rn.evClient.Close()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == rn {
		r.current = nil
	}
}

// Stop asks the daemon to stop recording. The run ends when the daemon
// reports recording has stopped, or after a grace period. A new run may be
// started right away.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	rn := r.current
	r.current = nil
	r.mu.Unlock()

	if rn == nil {
		return nil
	}
	rn.stopping.Store(true)
	time.AfterFunc(stopGrace, func() { rn.evClient.Close() })

	_, err := rn.client.call(Command{Cmd: "stop"})
	return err
}
