package preferences

import (
	"time"

	"talktimer/internal/core/model"
	"talktimer/internal/i18n"
)

const (
	// MinMarkers is the number of markers that can never be removed.
	MinMarkers = 3
	// DefaultStep is the length of a newly added section.
	DefaultStep = 5 * time.Minute
	// MaxMarkerMinutes bounds the minutes field of the marker editor.
	MaxMarkerMinutes = 180
)

// Settings defines editable user preferences.
type Settings struct {
	Durations []time.Duration
	Volume    float64
	Muted     bool
	Language  string
}

// DefaultSettings returns default settings for the talk timer.
func DefaultSettings() Settings {
	return Settings{
		Durations: model.DefaultDurations(),
		Volume:    1,
		Muted:     false,
		Language:  i18n.DefaultLanguage,
	}
}

// TimerConfig converts settings to a TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Durations:     EnsureMinimumDurations(settings.Durations),
		ChimeStrategy: model.DefaultChimeStrategy,
	}
}

// EnsureMinimumDurations sanitizes durations, falls back to defaults when
// empty and pads with DefaultStep up to MinMarkers.
func EnsureMinimumDurations(durations []time.Duration) []time.Duration {
	sanitized := model.SanitizeDurations(durations)
	if len(sanitized) == 0 {
		return model.DefaultDurations()
	}
	for len(sanitized) < MinMarkers {
		sanitized = append(sanitized, DefaultStep)
	}
	return sanitized
}

// AddMarker appends a DefaultStep section.
func AddMarker(durations []time.Duration) []time.Duration {
	return append(append([]time.Duration(nil), durations...), DefaultStep)
}

// RemoveMarker drops the section at index. The first MinMarkers sections
// are kept.
func RemoveMarker(durations []time.Duration, index int) []time.Duration {
	if len(durations) <= MinMarkers || index < MinMarkers || index >= len(durations) {
		return durations
	}
	result := make([]time.Duration, 0, len(durations)-1)
	result = append(result, durations[:index]...)
	result = append(result, durations[index+1:]...)
	return EnsureMinimumDurations(result)
}

// MarkerTotal is a cumulative marker time as entered in the editor.
type MarkerTotal struct {
	Minutes int
	Seconds int
}

// NormalizeTotals clamps editor fields and turns cumulative totals into
// section durations. The first total is at least one second and every total
// is strictly greater than the previous one.
func NormalizeTotals(totals []MarkerTotal) ([]MarkerTotal, []time.Duration) {
	normalized := make([]MarkerTotal, len(totals))
	durations := make([]time.Duration, len(totals))

	previous := 0
	for index, total := range totals {
		minutes := clampInt(total.Minutes, 0, MaxMarkerMinutes)
		seconds := clampInt(total.Seconds, 0, 59)
		value := minutes*60 + seconds
		if index == 0 && value < 1 {
			value = 1
		}
		if index > 0 && value <= previous {
			value = previous + 1
		}

		normalized[index] = MarkerTotal{Minutes: value / 60, Seconds: value % 60}
		durations[index] = time.Duration(value-previous) * time.Second
		previous = value
	}
	return normalized, durations
}

// Totals converts durations to cumulative editor totals.
func Totals(durations []time.Duration) []MarkerTotal {
	markers := model.MarkerTimes(durations)
	totals := make([]MarkerTotal, len(markers))
	for index, marker := range markers {
		seconds := int(marker / time.Second)
		totals[index] = MarkerTotal{Minutes: seconds / 60, Seconds: seconds % 60}
	}
	return totals
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
