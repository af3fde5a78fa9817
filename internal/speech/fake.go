package speech

import (
	"context"
	"sync"
)

// Fake is a scripted Recognizer for tests. Drive it with Final, Interim,
// Fail and End after the code under test has called Start.
type Fake struct {
	mu sync.Mutex

	// Unsupported makes Supported return false.
	Unsupported bool
	// StartErr, when set, is returned from Start.
	StartErr error
	// EndOnStop makes Stop deliver OnEnd synchronously, like a platform
	// recognizer that ends promptly.
	EndOnStop bool
	// StopErr, when set, is returned from Stop and the run keeps going.
	StopErr error

	cb      Callbacks
	running bool
	starts  []Options
	stops   int
}

// NewFake returns a supported Fake that ends runs on Stop.
func NewFake() *Fake {
	return &Fake{EndOnStop: true}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Supported() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.Unsupported
}

func (f *Fake) Start(_ context.Context, opts Options, cb Callbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StartErr != nil {
		return f.StartErr
	}
	f.cb = cb
	f.running = true
	f.starts = append(f.starts, opts)
	return nil
}

func (f *Fake) Stop() error {
	f.mu.Lock()
	f.stops++
	if err := f.StopErr; err != nil {
		f.mu.Unlock()
		return err
	}
	if !f.running || !f.EndOnStop {
		f.mu.Unlock()
		return nil
	}
	f.running = false
	cb := f.cb
	f.mu.Unlock()
	cb.End()
	return nil
}

// Running reports whether a run is in progress.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Starts returns the options of every Start call.
func (f *Fake) Starts() []Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Options{}, f.starts...)
}

// Stops returns the number of Stop calls.
func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Callbacks returns the callbacks of the latest run.
func (f *Fake) Callbacks() Callbacks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

// Final delivers a finalized utterance.
func (f *Fake) Final(text string, confidence float64) {
	f.Callbacks().Result(Update{Transcript: text, Confidence: confidence, Final: true})
}

// Interim delivers a partial utterance.
func (f *Fake) Interim(text string) {
	f.Callbacks().Result(Update{Transcript: text})
}

// Level delivers a raw audio level.
func (f *Fake) Level(v float64) {
	f.Callbacks().Level(v)
}

// Fail delivers a recognition error.
func (f *Fake) Fail(msg string) {
	f.Callbacks().Error(msg)
}

// End ends the current run.
func (f *Fake) End() {
	f.mu.Lock()
	f.running = false
	cb := f.cb
	f.mu.Unlock()
	cb.End()
}
