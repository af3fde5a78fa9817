package speech

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// InterimPrefix marks a line as a partial result in line-oriented input.
const InterimPrefix = "~"

// LineRecognizer turns the text output of an external transcriber into
// recognition updates. Each line is a final utterance; a line starting with
// InterimPrefix is a partial one. The source is read by a single goroutine
// shared by all runs, so a later run continues where the previous one stopped.
// A line is offered until a live run accepts it; a stopped run declines.
type LineRecognizer struct {
	src        io.Reader
	confidence float64

	feedOnce sync.Once
	lines    chan offer
	readErr  error

	mu   sync.Mutex
	stop chan struct{}
}

// NewLineRecognizer reads utterances from src. Final results carry confidence 1.
func NewLineRecognizer(src io.Reader) *LineRecognizer {
	return &LineRecognizer{
		src:        src,
		confidence: 1,
		lines:      make(chan offer),
	}
}

// offer hands one line to a run. The receiver answers on accept.
type offer struct {
	text   string
	accept chan bool
}

func (l *LineRecognizer) Name() string { return "lines" }

func (l *LineRecognizer) Supported() bool { return l.src != nil }

func (l *LineRecognizer) Start(ctx context.Context, opts Options, cb Callbacks) error {
	l.mu.Lock()
	if l.stop != nil {
		l.mu.Unlock()
		return ErrBusy
	}
	stop := make(chan struct{})
	l.stop = stop
	l.mu.Unlock()

	l.feedOnce.Do(func() { go l.feed() })
	go l.run(ctx, opts, cb, stop)
	return nil
}

func (l *LineRecognizer) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		close(l.stop)
		l.stop = nil
	}
	return nil
}

func (l *LineRecognizer) feed() {
	sc := bufio.NewScanner(l.src)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		o := offer{text: sc.Text(), accept: make(chan bool)}
		for {
			l.lines <- o
			if <-o.accept {
				break
			}
		}
	}
	l.readErr = sc.Err()
	close(l.lines)
}

func (l *LineRecognizer) run(ctx context.Context, opts Options, cb Callbacks, stop chan struct{}) {
	defer func() {
		l.mu.Lock()
		if l.stop == stop {
			l.stop = nil
		}
		l.mu.Unlock()
		cb.End()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case o, ok := <-l.lines:
			if !ok {
				if l.readErr != nil {
					cb.Error(l.readErr.Error())
				}
				return
			}
			if stopped(ctx, stop) {
				o.accept <- false
				return
			}
			o.accept <- true
			line := o.text
			l.handle(line, opts, cb)
			if !opts.Continuous && !strings.HasPrefix(line, InterimPrefix) && strings.TrimSpace(line) != "" {
				return
			}
		}
	}
}

func stopped(ctx context.Context, stop chan struct{}) bool {
	select {
	case <-ctx.Done():
		return true
	case <-stop:
		return true
	default:
		return false
	}
}

func (l *LineRecognizer) handle(line string, opts Options, cb Callbacks) {
	if rest, ok := strings.CutPrefix(line, InterimPrefix); ok {
		if opts.InterimResults {
			cb.Result(Update{Transcript: strings.TrimSpace(rest)})
		}
		return
	}
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}
	cb.Result(Update{Transcript: text, Confidence: l.confidence, Final: true})
}
