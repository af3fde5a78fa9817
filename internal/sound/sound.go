// Package sound plays the journal's console beeps and desktop notifications.
package sound

import (
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/rcliao/captains-log/internal/schedule"
)

// Tone is one beep.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// Named tones and sequences.
var (
	StartTone = Tone{1200, 100 * time.Millisecond}
	StopTone  = Tone{800, 100 * time.Millisecond}
	ClearTone = Tone{600, 100 * time.Millisecond}

	Startup  = sequence(200*time.Millisecond, Tone{400, 150 * time.Millisecond}, Tone{800, 150 * time.Millisecond}, Tone{1200, 150 * time.Millisecond})
	Shutdown = sequence(200*time.Millisecond, Tone{1200, 150 * time.Millisecond}, Tone{800, 150 * time.Millisecond}, Tone{400, 150 * time.Millisecond})
	Modem    = sequence(150*time.Millisecond,
		Tone{1200, 100 * time.Millisecond}, Tone{2400, 100 * time.Millisecond}, Tone{1800, 150 * time.Millisecond},
		Tone{1200, 100 * time.Millisecond}, Tone{2400, 200 * time.Millisecond})
)

// Step is a tone played at an offset from the start of a sequence.
type Step struct {
	At   time.Duration
	Tone Tone
}

func sequence(gap time.Duration, tones ...Tone) []Step {
	steps := make([]Step, len(tones))
	for i, t := range tones {
		steps[i] = Step{At: time.Duration(i) * gap, Tone: t}
	}
	return steps
}

// Player plays tones. A disabled Player is silent.
type Player struct {
	enabled bool
	sched   schedule.Scheduler
	logger  *slog.Logger
	tasks   schedule.Group

	// Beep and Notify default to beeep; tests replace them.
	Beep   func(freq float64, durationMs int) error
	Notify func(title, message, icon string) error
}

// New returns a Player. If logger is nil, uses the default slog logger.
func New(enabled bool, sched schedule.Scheduler, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	if sched == nil {
		sched = schedule.Real{}
	}
	return &Player{
		enabled: enabled,
		sched:   sched,
		logger:  logger,
		Beep:    beeep.Beep,
		Notify: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Enabled reports whether the Player makes sound.
func (p *Player) Enabled() bool { return p.enabled }

// Play plays t now.
func (p *Player) Play(t Tone) {
	if !p.enabled {
		return
	}
	// Beep failures (no audio device) are not worth surfacing.
	if err := p.Beep(t.Freq, int(t.Duration/time.Millisecond)); err != nil {
		p.logger.Debug("beep failed", "freq", t.Freq, "err", err)
	}
}

// PlaySequence schedules each step of seq.
func (p *Player) PlaySequence(seq []Step) {
	if !p.enabled {
		return
	}
	for _, s := range seq {
		tone := s.Tone
		p.tasks.After(p.sched, s.At, func() { p.Play(tone) })
	}
}

// Announce shows a desktop notification.
func (p *Player) Announce(title, message string) {
	if !p.enabled {
		return
	}
	if err := p.Notify("Captain's Log: "+title, message, ""); err != nil {
		p.logger.Debug("notification failed", "err", err)
	}
}

// Close cancels pending sequence steps.
func (p *Player) Close() {
	p.tasks.CancelAll()
}
