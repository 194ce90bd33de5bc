package preferences_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"talktimer/internal/core/model"
	"talktimer/internal/ui/preferences"
)

func TestEnsureMinimumDurations(t *testing.T) {
	assert.Equal(t, model.DefaultDurations(), preferences.EnsureMinimumDurations(nil))
	assert.Equal(t,
		[]time.Duration{time.Minute, 0, preferences.DefaultStep},
		preferences.EnsureMinimumDurations([]time.Duration{time.Minute, -time.Second}),
	)
}

func TestAddAndRemoveMarker(t *testing.T) {
	durations := model.DefaultDurations()

	added := preferences.AddMarker(durations)
	assert.Len(t, added, 4)
	assert.Len(t, durations, 3)
	assert.Equal(t, preferences.DefaultStep, added[3])

	assert.Equal(t, added, preferences.RemoveMarker(added, 1), "primary markers stay")
	assert.Equal(t, durations, preferences.RemoveMarker(durations, 2))
	assert.Equal(t, durations, preferences.RemoveMarker(added, 3))
}

func TestNormalizeTotals(t *testing.T) {
	normalized, durations := preferences.NormalizeTotals([]preferences.MarkerTotal{
		{Minutes: 0, Seconds: 0},
		{Minutes: 10, Seconds: 75},
		{Minutes: 5, Seconds: 0},
		{Minutes: 400, Seconds: 0},
	})

	assert.Equal(t, []preferences.MarkerTotal{
		{Minutes: 0, Seconds: 1},
		{Minutes: 10, Seconds: 59},
		{Minutes: 11, Seconds: 0},
		{Minutes: 180, Seconds: 0},
	}, normalized)
	assert.Equal(t, []time.Duration{
		time.Second,
		658 * time.Second,
		time.Second,
		(180*60 - 660) * time.Second,
	}, durations)
}

func TestTotalsRoundTrip(t *testing.T) {
	durations := []time.Duration{10 * time.Minute, 5 * time.Minute, 90 * time.Second}
	totals := preferences.Totals(durations)
	assert.Equal(t, []preferences.MarkerTotal{{Minutes: 10}, {Minutes: 15}, {Minutes: 16, Seconds: 30}}, totals)

	_, back := preferences.NormalizeTotals(totals)
	assert.Equal(t, durations, back)
}

func TestSettingsTimerConfig(t *testing.T) {
	settings := preferences.DefaultSettings()
	settings.Durations = []time.Duration{time.Minute}

	config := settings.TimerConfig()
	assert.Len(t, config.Durations, preferences.MinMarkers)
	assert.NotNil(t, config.ChimeStrategy)
}
