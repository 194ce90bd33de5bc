package timekeeper

import (
	"time"

	"talktimer/internal/core/model"
)

// Options contains the host capabilities the TimeKeeper runs on.
type Options struct {
	// Clock defaults to the system clock.
	Clock Clock
	// Frames drives time advancement while running. Required.
	Frames FrameScheduler
}

// TimeKeeper is a state machine that paces a sequence of timed sections.
//
// A TimeKeeper is not safe for concurrent use. Hosts call it from the same
// goroutine their FrameScheduler delivers frames on.
type TimeKeeper struct {
	options       Options
	chimeStrategy model.ChimeStrategy
	callbacks     Callbacks

	intervals     []time.Duration
	markerTimes   []time.Duration
	totalDuration time.Duration

	status        Status
	totalElapsed  time.Duration
	nextMarker    int
	currentMarker int
	completed     bool
	generation    uint64

	reference    time.Time
	frameID      FrameID
	framePending bool
	frameToken   uint64
}

// New creates a TimeKeeper with the provided configuration.
// Empty durations fall back to model.DefaultDurations.
func New(config model.TimerConfig, options Options) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = SystemClock()
	}
	strategy := config.ChimeStrategy
	if strategy == nil {
		strategy = model.DefaultChimeStrategy
	}

	durations := config.Durations
	if len(durations) == 0 {
		durations = model.DefaultDurations()
	}

	keeper := &TimeKeeper{
		options:       options,
		chimeStrategy: strategy,
	}
	keeper.applyDurations(durations)
	keeper.resetState()
	return keeper
}

// ConfigureCallbacks replaces the event handlers and emits one snapshot.
func (keeper *TimeKeeper) ConfigureCallbacks(callbacks Callbacks) {
	keeper.callbacks = callbacks
	keeper.emit()
}

// SetDurations replaces the section sequence and resets to idle.
// Empty lists are ignored.
func (keeper *TimeKeeper) SetDurations(durations []time.Duration) {
	if len(durations) == 0 {
		return
	}
	keeper.cancelFrame()
	keeper.applyDurations(durations)
	keeper.resetState()
	keeper.emit()
}

// Start resets progress and begins the frame loop. No-op while running.
func (keeper *TimeKeeper) Start() {
	if keeper.status == StatusRunning {
		return
	}
	keeper.cancelFrame()
	keeper.resetState()
	keeper.status = StatusRunning
	keeper.reference = keeper.options.Clock.Now()
	generation := keeper.generation
	keeper.emit()
	// An OnTick handler may have reset, reconfigured or paused the run.
	if generation != keeper.generation || keeper.status != StatusRunning {
		return
	}
	keeper.beginLoop()
}

// Pause freezes elapsed time, including overrun after the last marker.
// No-op unless running or finished.
func (keeper *TimeKeeper) Pause() {
	if !keeper.advancing() {
		return
	}
	keeper.cancelFrame()
	keeper.status = StatusPaused
	keeper.emit()
}

// Resume continues a paused run. Time spent paused is not counted.
func (keeper *TimeKeeper) Resume() {
	if keeper.status != StatusPaused {
		return
	}
	keeper.status = StatusRunning
	if keeper.completed {
		keeper.status = StatusFinished
	}
	keeper.reference = keeper.options.Clock.Now()
	keeper.beginLoop()
}

// Reset cancels the loop and returns to idle.
func (keeper *TimeKeeper) Reset() {
	keeper.cancelFrame()
	keeper.resetState()
	keeper.emit()
}

// Skip completes the next marker without firing OnSectionEnd.
func (keeper *TimeKeeper) Skip() {
	if keeper.status == StatusIdle || keeper.nextMarker == NoSection {
		return
	}
	if target := keeper.markerTimes[keeper.nextMarker]; keeper.totalElapsed < target {
		keeper.totalElapsed = target
	}
	keeper.advance(0, false)
}

// ChimeCount returns the signal strength for the marker at index, at least 1.
// A panicking strategy falls back to model.DefaultChimeStrategy.
func (keeper *TimeKeeper) ChimeCount(index int) (count int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			count = model.DefaultChimeStrategy(index)
		}
	}()
	count = keeper.chimeStrategy(index)
	if count < 1 {
		count = 1
	}
	return count
}

// Status returns the current run state.
func (keeper *TimeKeeper) Status() Status {
	return keeper.status
}

// IsRunning reports whether the frame loop is advancing time.
func (keeper *TimeKeeper) IsRunning() bool {
	return keeper.advancing()
}

// Durations returns a copy of the section durations.
func (keeper *TimeKeeper) Durations() []time.Duration {
	return append([]time.Duration(nil), keeper.intervals...)
}

// MarkerTimes returns a copy of the cumulative marker times.
func (keeper *TimeKeeper) MarkerTimes() []time.Duration {
	return append([]time.Duration(nil), keeper.markerTimes...)
}

// Snapshot projects the current state. It has no side effects.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	crossed := len(keeper.markerTimes)
	if keeper.nextMarker != NoSection {
		crossed = keeper.nextMarker
	}

	sections := make([]SectionProgress, len(keeper.intervals))
	for index, duration := range keeper.intervals {
		marker := keeper.markerTimes[index]
		progress := 0.0
		switch {
		case index < crossed:
			progress = 1
		case duration == 0:
			if keeper.totalElapsed >= marker {
				progress = 1
			}
		case index == keeper.nextMarker:
			progress = clampUnit(float64(keeper.totalElapsed-(marker-duration)) / float64(duration))
		}
		sections[index] = SectionProgress{
			Duration: duration,
			Marker:   marker,
			Progress: progress,
		}
	}

	var remaining time.Duration
	if keeper.nextMarker != NoSection {
		remaining = max(0, keeper.markerTimes[keeper.nextMarker]-keeper.totalElapsed)
	}
	overrun := max(0, keeper.totalElapsed-keeper.totalDuration)

	return Snapshot{
		Status:              keeper.status,
		TotalElapsed:        keeper.totalElapsed,
		TotalDuration:       keeper.totalDuration,
		RemainingTotal:      max(0, keeper.totalDuration-keeper.totalElapsed),
		Overrun:             overrun,
		IsOverrun:           overrun > 0,
		CurrentSectionIndex: keeper.currentMarker,
		NextSectionIndex:    keeper.nextMarker,
		Remaining:           remaining,
		Sections:            sections,
	}
}

func (keeper *TimeKeeper) applyDurations(durations []time.Duration) {
	keeper.intervals = model.SanitizeDurations(durations)
	keeper.markerTimes = model.MarkerTimes(keeper.intervals)
	keeper.totalDuration = keeper.markerTimes[len(keeper.markerTimes)-1]
}

func (keeper *TimeKeeper) resetState() {
	keeper.status = StatusIdle
	keeper.totalElapsed = 0
	keeper.nextMarker = 0
	keeper.currentMarker = NoSection
	keeper.completed = false
	keeper.generation++
}

func (keeper *TimeKeeper) advancing() bool {
	return keeper.status == StatusRunning || keeper.status == StatusFinished
}

// beginLoop runs the first tick synchronously with a zero delta, then
// schedules the next frame unless a handler stopped the run.
func (keeper *TimeKeeper) beginLoop() {
	keeper.cancelFrame()
	token := keeper.frameToken
	keeper.advance(0, true)
	if token == keeper.frameToken && keeper.advancing() {
		keeper.scheduleFrame()
	}
}

func (keeper *TimeKeeper) onFrame(token uint64) {
	if token != keeper.frameToken {
		return
	}
	keeper.framePending = false
	if !keeper.advancing() {
		return
	}

	now := keeper.options.Clock.Now()
	delta := now.Sub(keeper.reference)
	keeper.reference = now
	keeper.advance(delta, true)

	if token == keeper.frameToken && keeper.advancing() {
		keeper.scheduleFrame()
	}
}

// advance adds delta, crosses every due marker in index order and emits a
// snapshot. Negative deltas from a misbehaving clock are dropped.
func (keeper *TimeKeeper) advance(delta time.Duration, notify bool) {
	if delta > 0 {
		keeper.totalElapsed += delta
	}
	if !keeper.crossMarkers(notify) {
		return
	}
	keeper.emit()
}

// crossMarkers returns false when a handler reset the state mid-crossing.
func (keeper *TimeKeeper) crossMarkers(notify bool) bool {
	generation := keeper.generation
	for keeper.nextMarker != NoSection && keeper.totalElapsed >= keeper.markerTimes[keeper.nextMarker] {
		index := keeper.nextMarker
		keeper.currentMarker = index
		keeper.nextMarker = index + 1
		if keeper.nextMarker >= len(keeper.markerTimes) {
			keeper.nextMarker = NoSection
		}

		if notify && keeper.callbacks.OnSectionEnd != nil {
			keeper.callbacks.OnSectionEnd(index, keeper.ChimeCount(index))
			if generation != keeper.generation {
				return false
			}
		}
	}

	if keeper.nextMarker == NoSection && !keeper.completed {
		keeper.completed = true
		if keeper.status == StatusRunning {
			keeper.status = StatusFinished
		}
		if keeper.callbacks.OnComplete != nil {
			keeper.callbacks.OnComplete()
			if generation != keeper.generation {
				return false
			}
		}
	}
	return true
}

func (keeper *TimeKeeper) scheduleFrame() {
	keeper.cancelFrame()
	token := keeper.frameToken
	keeper.frameID = keeper.options.Frames.RequestFrame(func() {
		keeper.onFrame(token)
	})
	keeper.framePending = true
}

// cancelFrame invalidates any outstanding frame, including one the scheduler
// already dequeued.
func (keeper *TimeKeeper) cancelFrame() {
	if keeper.framePending {
		keeper.options.Frames.CancelFrame(keeper.frameID)
		keeper.framePending = false
	}
	keeper.frameToken++
}

func (keeper *TimeKeeper) emit() {
	if keeper.callbacks.OnTick != nil {
		keeper.callbacks.OnTick(keeper.Snapshot())
	}
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
