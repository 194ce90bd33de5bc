// Package frames provides a FrameScheduler for hosts without a display.
package frames

import (
	"context"
	"sync"
	"time"

	"talktimer/internal/core/timekeeper"
)

// DefaultInterval approximates a 60 Hz display.
const DefaultInterval = 16 * time.Millisecond

// Loop delivers frame callbacks on the goroutine that calls Run.
type Loop struct {
	mu       sync.Mutex
	interval time.Duration
	nextID   timekeeper.FrameID
	pending  map[timekeeper.FrameID]*time.Timer
	queue    []func()
	wake     chan struct{}
}

// NewLoop creates a Loop firing requested frames after interval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		pending:  make(map[timekeeper.FrameID]*time.Timer),
		wake:     make(chan struct{}, 1),
	}
}

var _ timekeeper.FrameScheduler = &Loop{}

// RequestFrame schedules callback to run on the Run goroutine after one interval.
func (loop *Loop) RequestFrame(callback func()) timekeeper.FrameID {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	loop.nextID++
	id := loop.nextID
	loop.pending[id] = time.AfterFunc(loop.interval, func() {
		loop.enqueue(func() {
			if loop.take(id) {
				callback()
			}
		})
	})
	return id
}

// CancelFrame drops a pending frame. Cancelling an unknown id is a no-op.
func (loop *Loop) CancelFrame(id timekeeper.FrameID) {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	if timer, ok := loop.pending[id]; ok {
		timer.Stop()
		delete(loop.pending, id)
	}
}

// Post runs callback on the Run goroutine as soon as possible.
func (loop *Loop) Post(callback func()) {
	loop.enqueue(callback)
}

// Pending returns the number of frames that have not run or been cancelled.
func (loop *Loop) Pending() int {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	return len(loop.pending)
}

// Run executes queued callbacks until ctx is done.
func (loop *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			loop.stopAll()
			return ctx.Err()
		case <-loop.wake:
			for _, callback := range loop.drain() {
				callback()
			}
		}
	}
}

func (loop *Loop) enqueue(callback func()) {
	loop.mu.Lock()
	loop.queue = append(loop.queue, callback)
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

func (loop *Loop) drain() []func() {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	queue := loop.queue
	loop.queue = nil
	return queue
}

// take reports whether id was still pending and removes it.
func (loop *Loop) take(id timekeeper.FrameID) bool {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	if _, ok := loop.pending[id]; !ok {
		return false
	}
	delete(loop.pending, id)
	return true
}

func (loop *Loop) stopAll() {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	for id, timer := range loop.pending {
		timer.Stop()
		delete(loop.pending, id)
	}
}
