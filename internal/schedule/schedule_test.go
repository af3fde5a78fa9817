package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualEvery(t *testing.T) {
	m := NewManual()
	var ticks int
	task := m.Every(time.Second, func() { ticks++ })

	m.Advance(500 * time.Millisecond)
	assert.Equal(t, 0, ticks)
	m.Advance(3 * time.Second)
	assert.Equal(t, 3, ticks)

	task.Cancel()
	m.Advance(5 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestManualAfterRunsOnce(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(2*time.Second, func() { order = append(order, "b") })
	m.After(time.Second, func() { order = append(order, "a") })

	m.Advance(10 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualCancelFromInsideTask(t *testing.T) {
	m := NewManual()
	var ticks int
	var task Task
	task = m.Every(time.Second, func() {
		ticks++
		if ticks == 2 {
			task.Cancel()
		}
	})

	m.Advance(10 * time.Second)
	assert.Equal(t, 2, ticks)
}

func TestGroupCancelAll(t *testing.T) {
	m := NewManual()
	var g Group
	var ran int
	g.After(m, time.Second, func() { ran++ })
	g.Every(m, time.Second, func() { ran++ })

	g.CancelAll()
	m.Advance(5 * time.Second)
	assert.Equal(t, 0, ran)
	assert.Equal(t, 0, g.Len())
}

func TestGroupForgetsFinishedTasks(t *testing.T) {
	m := NewManual()
	var g Group
	for i := 0; i < 50; i++ {
		g.After(m, time.Second, func() {})
		g.Every(m, time.Second, func() {}).Cancel()
	}
	assert.Equal(t, 50, g.Len())

	m.Advance(time.Second)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, m.Pending())
}

func TestGroupCancelBeforeBind(t *testing.T) {
	m := NewManual()
	var g Group
	var ran int
	inner := m.After(time.Second, func() { ran++ })

	task := g.track()
	task.Cancel()
	task.bind(inner)

	m.Advance(5 * time.Second)
	assert.Equal(t, 0, ran)
	assert.Equal(t, 0, g.Len())
}

func TestRealEvery(t *testing.T) {
	var ticks atomic.Int32
	task := Real{}.Every(5*time.Millisecond, func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	task.Cancel()
	task.Cancel()
}

func TestRealAfter(t *testing.T) {
	done := make(chan struct{})
	Real{}.After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("after did not fire")
	}
}
