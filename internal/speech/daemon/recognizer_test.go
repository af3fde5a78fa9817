package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/captains-log/internal/speech"
)

// mockDaemon accepts a command connection and an event connection and lets
// the test push events onto the subscription.
type mockDaemon struct {
	t        *testing.T
	sockPath string
	ln       net.Listener

	mu         sync.Mutex
	commands   []Command
	events     chan net.Conn
	subscribed net.Conn
	startOK    bool
}

func startMockDaemon(t *testing.T, startOK bool) *mockDaemon {
	t.Helper()

	sockPath := filepath.Join(t.TempDir(), "speech.sock")
	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

	d := &mockDaemon{t: t, sockPath: sockPath, ln: ln, events: make(chan net.Conn, 1), startOK: startOK}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go d.serve(conn)
		}
	}()
	return d
}

func (d *mockDaemon) serve(conn net.Conn) {
	r := bufio.NewScanner(conn)
	for r.Scan() {
		var cmd Command
		if err := json.Unmarshal(r.Bytes(), &cmd); err != nil {
			return
		}
		d.mu.Lock()
		d.commands = append(d.commands, cmd)
		d.mu.Unlock()

		switch cmd.Cmd {
		case "subscribe":
			d.write(conn, Response{OK: true})
			d.events <- conn
			return
		case "start":
			if d.startOK {
				d.write(conn, Response{OK: true, SessionID: "daemon-1"})
			} else {
				d.write(conn, Response{OK: false, Error: "no microphone"})
			}
		case "stop":
			d.write(conn, Response{OK: true})
			d.push(Event{Event: EventStatus, Recording: BoolPtr(false)})
		}
	}
}

func (d *mockDaemon) write(conn net.Conn, v any) {
	data, _ := json.Marshal(v)
	conn.Write(append(data, '\n'))
}

// evConn returns the subscribed event connection, or nil if none arrived.
func (d *mockDaemon) evConn() net.Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subscribed != nil {
		return d.subscribed
	}
	select {
	case d.subscribed = <-d.events:
		return d.subscribed
	case <-time.After(2 * time.Second):
		d.t.Error("no event subscription")
		return nil
	}
}

func (d *mockDaemon) push(ev Event) {
	if c := d.evConn(); c != nil {
		d.write(c, ev)
	}
}

func (d *mockDaemon) startCommand() Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.commands {
		if c.Cmd == "start" {
			return c
		}
	}
	return Command{}
}

type collector struct {
	mu      sync.Mutex
	updates []speech.Update
	errors  []string
	levels  []float64
	ended   chan struct{}
	got     chan struct{}
}

func newCollector() *collector {
	return &collector{ended: make(chan struct{}), got: make(chan struct{}, 16)}
}

func (c *collector) callbacks() speech.Callbacks {
	return speech.Callbacks{
		OnResult: func(u speech.Update) {
			c.mu.Lock()
			c.updates = append(c.updates, u)
			c.mu.Unlock()
			c.got <- struct{}{}
		},
		OnError: func(msg string) {
			c.mu.Lock()
			c.errors = append(c.errors, msg)
			c.mu.Unlock()
		},
		OnLevel: func(v float64) {
			c.mu.Lock()
			c.levels = append(c.levels, v)
			c.mu.Unlock()
			c.got <- struct{}{}
		},
		OnEnd: func() { close(c.ended) },
	}
}

func (c *collector) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.got:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for callback %d", i+1)
		}
	}
}

func (c *collector) waitEnd(t *testing.T) {
	t.Helper()
	select {
	case <-c.ended:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not end")
	}
}

func TestRecognizerStreamsEvents(t *testing.T) {
	d := startMockDaemon(t, true)
	rec := New(d.sockPath, nil)
	require.True(t, rec.Supported())

	c := newCollector()
	err := rec.Start(context.Background(), speech.Options{Language: "en-US", Continuous: true, InterimResults: true}, c.callbacks())
	require.NoError(t, err)

	start := d.startCommand()
	assert.Equal(t, "en-US", start.Locale)
	require.NotNil(t, start.Continuous)
	assert.True(t, *start.Continuous)

	conf := 0.8
	mic := float32(0.5)
	d.push(Event{Event: EventPartial, Text: "hel"})
	d.push(Event{Event: EventSegment, Text: "hello", Confidence: &conf})
	d.push(Event{Event: EventLevel, Mic: &mic})
	c.wait(t, 3)

	require.NoError(t, rec.Stop())
	c.waitEnd(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, []speech.Update{
		{Transcript: "hel"},
		{Transcript: "hello", Confidence: 0.8, Final: true},
	}, c.updates)
	assert.Equal(t, []float64{0.5}, c.levels)
	assert.Empty(t, c.errors)
}

func TestRecognizerErrorEndsRun(t *testing.T) {
	d := startMockDaemon(t, true)
	rec := New(d.sockPath, nil)

	c := newCollector()
	require.NoError(t, rec.Start(context.Background(), speech.Options{Continuous: true}, c.callbacks()))

	d.push(Event{Event: EventError, Message: "transient glitch", Transient: BoolPtr(true)})
	d.push(Event{Event: EventError, Message: "no-speech"})
	c.waitEnd(t)

	c.mu.Lock()
	assert.Equal(t, []string{"no-speech"}, c.errors)
	c.mu.Unlock()

	// The recognizer is free for another run once the previous one ended.
	assert.NoError(t, rec.Stop())
}

func TestRecognizerStartRefused(t *testing.T) {
	d := startMockDaemon(t, false)
	rec := New(d.sockPath, nil)

	err := rec.Start(context.Background(), speech.Options{}, speech.Callbacks{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no microphone")
}

func TestRecognizerUnsupportedWithoutDaemon(t *testing.T) {
	rec := New(filepath.Join(t.TempDir(), "missing.sock"), nil)
	assert.False(t, rec.Supported())
	assert.Error(t, rec.Start(context.Background(), speech.Options{}, speech.Callbacks{}))
}

func TestRecognizerContextCancelEndsQuietly(t *testing.T) {
	d := startMockDaemon(t, true)
	rec := New(d.sockPath, nil)

	c := newCollector()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, rec.Start(ctx, speech.Options{}, c.callbacks()))
	d.evConn()

	cancel()
	c.waitEnd(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.errors)
}
