package sound

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/captains-log/internal/schedule"
)

type recorder struct {
	beeps []float64
	notes []string
}

func newTestPlayer(enabled bool) (*Player, *recorder, *schedule.Manual) {
	sched := schedule.NewManual()
	p := New(enabled, sched, nil)
	rec := &recorder{}
	p.Beep = func(freq float64, _ int) error {
		rec.beeps = append(rec.beeps, freq)
		return nil
	}
	p.Notify = func(title, _, _ string) error {
		rec.notes = append(rec.notes, title)
		return nil
	}
	return p, rec, sched
}

func TestPlay(t *testing.T) {
	p, rec, _ := newTestPlayer(true)
	p.Play(StartTone)
	p.Play(StopTone)
	p.Play(ClearTone)
	assert.Equal(t, []float64{1200, 800, 600}, rec.beeps)
}

func TestDisabledIsSilent(t *testing.T) {
	p, rec, sched := newTestPlayer(false)
	p.Play(StartTone)
	p.PlaySequence(Startup)
	p.Announce("saved", "note")
	sched.Advance(time.Second)

	assert.Empty(t, rec.beeps)
	assert.Empty(t, rec.notes)
	assert.Zero(t, sched.Pending())
}

func TestStartupSequenceTiming(t *testing.T) {
	p, rec, sched := newTestPlayer(true)
	p.PlaySequence(Startup)

	sched.Advance(0)
	assert.Equal(t, []float64{400}, rec.beeps)
	sched.Advance(200 * time.Millisecond)
	assert.Equal(t, []float64{400, 800}, rec.beeps)
	sched.Advance(200 * time.Millisecond)
	assert.Equal(t, []float64{400, 800, 1200}, rec.beeps)
	assert.Zero(t, p.tasks.Len())
}

func TestRepeatedSequencesReleaseSteps(t *testing.T) {
	p, rec, sched := newTestPlayer(true)
	for i := 0; i < 20; i++ {
		p.PlaySequence(Shutdown)
		sched.Advance(time.Second)
	}
	assert.Len(t, rec.beeps, 20*len(Shutdown))
	assert.Zero(t, p.tasks.Len())
}

func TestCloseCancelsSequence(t *testing.T) {
	p, rec, sched := newTestPlayer(true)
	p.PlaySequence(Modem)
	p.Close()
	sched.Advance(time.Second)
	assert.Empty(t, rec.beeps)
}

func TestBeepFailureIgnored(t *testing.T) {
	p, _, _ := newTestPlayer(true)
	p.Beep = func(float64, int) error { return errors.New("no audio device") }
	assert.NotPanics(t, func() { p.Play(StartTone) })
}

func TestAnnounce(t *testing.T) {
	p, rec, _ := newTestPlayer(true)
	p.Announce("saved", "Stardate 1")
	assert.Equal(t, []string{"Captain's Log: saved"}, rec.notes)
}
