package timekeeper

import "time"

// Status represents the current TimeKeeper mode.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// NoSection marks an absent section or marker index.
const NoSection = -1

// SectionProgress is the per-section part of a Snapshot.
type SectionProgress struct {
	Duration time.Duration
	Marker   time.Duration
	Progress float64
}

// Snapshot is a read-only projection of the TimeKeeper state.
type Snapshot struct {
	Status              Status
	TotalElapsed        time.Duration
	TotalDuration       time.Duration
	RemainingTotal      time.Duration
	Overrun             time.Duration
	IsOverrun           bool
	CurrentSectionIndex int
	NextSectionIndex    int
	// Remaining is the time left until the next marker.
	Remaining time.Duration
	Sections  []SectionProgress
}

// HasNext reports whether a marker is still ahead.
func (snapshot Snapshot) HasNext() bool {
	return snapshot.NextSectionIndex != NoSection
}

// Callbacks defines TimeKeeper event handlers. Nil handlers are skipped.
type Callbacks struct {
	OnTick       func(Snapshot)
	OnSectionEnd func(index int, chimes int)
	OnComplete   func()
}
