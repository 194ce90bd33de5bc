package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"talktimer/internal/core/timekeeper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	tick    func(float32)
	started int
	stopped int
}

func (ticker *fakeTicker) Start() { ticker.started++ }
func (ticker *fakeTicker) Stop()  { ticker.stopped++ }

func newTestFrames() (*Frames, *[]*fakeTicker) {
	var tickers []*fakeTicker
	frames := &Frames{newTicker: func(tick func(float32)) ticker {
		created := &fakeTicker{tick: tick}
		tickers = append(tickers, created)
		return created
	}}
	return frames, &tickers
}

func TestFramesRunsRequestsInOrderOnTick(t *testing.T) {
	frames, tickers := newTestFrames()
	var order []int
	frames.RequestFrame(func() { order = append(order, 1) })
	frames.RequestFrame(func() { order = append(order, 2) })

	require.Len(t, *tickers, 1)
	assert.Equal(t, 1, (*tickers)[0].started)
	assert.Equal(t, 2, frames.Pending())

	(*tickers)[0].tick(0)
	assert.Equal(t, []int{1, 2}, order)
	assert.Zero(t, frames.Pending())
}

func TestFramesDefersRequestsMadeDuringTick(t *testing.T) {
	frames, tickers := newTestFrames()
	calls := 0
	var loop func()
	loop = func() {
		calls++
		frames.RequestFrame(loop)
	}
	frames.RequestFrame(loop)

	(*tickers)[0].tick(0)
	assert.Equal(t, 1, calls)
	(*tickers)[0].tick(0)
	assert.Equal(t, 2, calls)
	assert.Len(t, *tickers, 1)
}

func TestFramesCancel(t *testing.T) {
	frames, tickers := newTestFrames()
	ran := false
	id := frames.RequestFrame(func() { ran = true })
	frames.CancelFrame(id)
	frames.CancelFrame(id + 100)

	(*tickers)[0].tick(0)
	assert.False(t, ran)
}

func TestFramesCancelWithinBatch(t *testing.T) {
	frames, tickers := newTestFrames()
	ran := false
	var second timekeeper.FrameID
	frames.RequestFrame(func() { frames.CancelFrame(second) })
	second = frames.RequestFrame(func() { ran = true })

	(*tickers)[0].tick(0)
	assert.False(t, ran)
}

func TestFramesStopsWhenIdleAndRestarts(t *testing.T) {
	frames, tickers := newTestFrames()
	frames.RequestFrame(func() {})
	first := (*tickers)[0]

	first.tick(0)
	first.tick(0)
	assert.Equal(t, 1, first.stopped)

	ran := false
	frames.RequestFrame(func() { ran = true })
	require.Len(t, *tickers, 2)

	// A late tick from the stopped animation must not run the new request.
	first.tick(0)
	assert.False(t, ran)
	(*tickers)[1].tick(0)
	assert.True(t, ran)
}

type pulseRecorder struct {
	mu     sync.Mutex
	states []bool
}

func (recorder *pulseRecorder) record(highlighted bool) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.states = append(recorder.states, highlighted)
}

func (recorder *pulseRecorder) snapshot() []bool {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]bool(nil), recorder.states...)
}

func TestPulseFlashesCountTimes(t *testing.T) {
	recorder := &pulseRecorder{}
	engine := New(Config{FlashOn: time.Millisecond, FlashOff: time.Millisecond}, recorder.record)

	engine.Pulse(context.Background(), 2)

	expected := []bool{true, false, true, false, false}
	assert.Eventually(t, func() bool {
		return len(recorder.snapshot()) == len(expected)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, expected, recorder.snapshot())
}

func TestPulseStopClearsHighlight(t *testing.T) {
	recorder := &pulseRecorder{}
	engine := New(Config{FlashOn: time.Hour}, recorder.record)

	engine.Pulse(context.Background(), 3)
	assert.Eventually(t, func() bool {
		return len(recorder.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	engine.Stop()
	assert.Eventually(t, func() bool {
		states := recorder.snapshot()
		return len(states) == 2 && !states[1]
	}, time.Second, 5*time.Millisecond)
}
