package timekeeper

import "time"

// Clock reads a monotonic time source. Only differences between readings are used.
type Clock interface {
	Now() time.Time
}

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameScheduler runs a callback on the next display frame.
type FrameScheduler interface {
	RequestFrame(callback func()) FrameID
	CancelFrame(id FrameID)
}

type systemClock struct{}

// SystemClock returns the process monotonic clock.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
