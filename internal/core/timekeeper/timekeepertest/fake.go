// Package timekeepertest provides deterministic clock and frame fakes.
package timekeepertest

import (
	"time"

	"talktimer/internal/core/timekeeper"
)

// FakeClock is a Clock that only moves when Advance is called.
type FakeClock struct {
	now time.Time
}

// NewFakeClock returns a clock starting at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

var _ timekeeper.Clock = &FakeClock{}

func (clock *FakeClock) Now() time.Time {
	return clock.now
}

// Advance moves the clock forward.
func (clock *FakeClock) Advance(delta time.Duration) {
	clock.now = clock.now.Add(delta)
}

// FakeFrames is a FrameScheduler whose frames run only when Flush is called.
type FakeFrames struct {
	nextID    timekeeper.FrameID
	pending   []pendingFrame
	cancelled int
}

type pendingFrame struct {
	id       timekeeper.FrameID
	callback func()
}

var _ timekeeper.FrameScheduler = &FakeFrames{}

func (frames *FakeFrames) RequestFrame(callback func()) timekeeper.FrameID {
	frames.nextID++
	frames.pending = append(frames.pending, pendingFrame{id: frames.nextID, callback: callback})
	return frames.nextID
}

func (frames *FakeFrames) CancelFrame(id timekeeper.FrameID) {
	for index, frame := range frames.pending {
		if frame.id == id {
			frames.pending = append(frames.pending[:index], frames.pending[index+1:]...)
			frames.cancelled++
			return
		}
	}
}

// Pending returns the number of frames waiting to run.
func (frames *FakeFrames) Pending() int {
	return len(frames.pending)
}

// Cancelled returns how many pending frames were cancelled.
func (frames *FakeFrames) Cancelled() int {
	return frames.cancelled
}

// Flush runs the frames pending at the time of the call and returns how many ran.
// Frames requested by those callbacks wait for the next Flush.
func (frames *FakeFrames) Flush() int {
	batch := frames.pending
	frames.pending = nil
	for _, frame := range batch {
		frame.callback()
	}
	return len(batch)
}

// Driver advances a FakeClock and flushes FakeFrames in lockstep.
type Driver struct {
	Clock  *FakeClock
	Frames *FakeFrames
}

// NewDriver returns a Driver with fresh fakes.
func NewDriver() *Driver {
	return &Driver{Clock: NewFakeClock(), Frames: &FakeFrames{}}
}

// Options returns TimeKeeper options bound to the fakes.
func (driver *Driver) Options() timekeeper.Options {
	return timekeeper.Options{Clock: driver.Clock, Frames: driver.Frames}
}

// Step advances the clock by delta and runs one frame.
func (driver *Driver) Step(delta time.Duration) {
	driver.Clock.Advance(delta)
	driver.Frames.Flush()
}

// Simulate runs frames of size step until total has elapsed on the clock.
func (driver *Driver) Simulate(total, step time.Duration) {
	for total > 0 {
		delta := min(step, total)
		driver.Step(delta)
		total -= delta
	}
}
