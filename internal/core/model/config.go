package model

import (
	"math"
	"time"
)

// MaxSectionDuration caps a single section so cumulative sums never overflow.
const MaxSectionDuration = 24 * time.Hour

// MaxChimeCount is the strongest signal the default ramp produces.
const MaxChimeCount = 3

// ChimeStrategy maps a section index to the signal strength played when it ends.
// It must be a pure function.
type ChimeStrategy func(index int) int

// DefaultChimeStrategy ramps 1, 2, 3 and stays at 3.
func DefaultChimeStrategy(index int) int {
	if index < 0 {
		return 1
	}
	return min(index+1, MaxChimeCount)
}

// TimerConfig contains the construction settings of the TimeKeeper.
type TimerConfig struct {
	Durations     []time.Duration
	ChimeStrategy ChimeStrategy
}

// DefaultDurations returns the talk, Q&A and wrap-up defaults.
func DefaultDurations() []time.Duration {
	return []time.Duration{10 * time.Minute, 5 * time.Minute, 5 * time.Minute}
}

// SanitizeDuration clamps a duration to [0, MaxSectionDuration].
func SanitizeDuration(value time.Duration) time.Duration {
	if value < 0 {
		return 0
	}
	if value > MaxSectionDuration {
		return MaxSectionDuration
	}
	return value
}

// SanitizeDurations returns a copy with every entry clamped.
func SanitizeDurations(values []time.Duration) []time.Duration {
	sanitized := make([]time.Duration, len(values))
	for index, value := range values {
		sanitized[index] = SanitizeDuration(value)
	}
	return sanitized
}

// SecondsToDuration converts seconds to a duration. NaN, infinities and
// negatives become zero.
func SecondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	if seconds >= MaxSectionDuration.Seconds() {
		return MaxSectionDuration
	}
	return time.Duration(seconds * float64(time.Second))
}

// SecondsToDurations converts a list of seconds, sanitizing every entry.
func SecondsToDurations(seconds []float64) []time.Duration {
	durations := make([]time.Duration, len(seconds))
	for index, value := range seconds {
		durations[index] = SecondsToDuration(value)
	}
	return durations
}

// DurationsToSeconds is the inverse of SecondsToDurations.
func DurationsToSeconds(durations []time.Duration) []float64 {
	seconds := make([]float64, len(durations))
	for index, value := range durations {
		seconds[index] = value.Seconds()
	}
	return seconds
}

// MarkerTimes returns the cumulative end time of each section.
func MarkerTimes(durations []time.Duration) []time.Duration {
	markers := make([]time.Duration, len(durations))
	var sum time.Duration
	for index, value := range durations {
		sum += SanitizeDuration(value)
		markers[index] = sum
	}
	return markers
}
