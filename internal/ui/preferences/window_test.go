package preferences

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talktimer/internal/i18n"
)

func newTestWindow(t *testing.T, onSave func(Settings)) *Window {
	t.Helper()
	app := test.NewTempApp(t)
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	return New(app, catalog, DefaultSettings(), onSave)
}

func TestWindowShowsCumulativeTotals(t *testing.T) {
	prefs := newTestWindow(t, nil)

	require.Len(t, prefs.rows, 3)
	assert.Equal(t, "10", prefs.rows[0].minutes.Text)
	assert.Equal(t, "15", prefs.rows[1].minutes.Text)
	assert.Equal(t, "20", prefs.rows[2].minutes.Text)
	assert.Equal(t, "0", prefs.rows[2].seconds.Text)
}

func TestWindowSaveNormalizesMarkers(t *testing.T) {
	var saved Settings
	prefs := newTestWindow(t, func(settings Settings) { saved = settings })

	prefs.rows[0].minutes.SetText("2")
	prefs.rows[1].minutes.SetText("1")
	prefs.rows[2].minutes.SetText("4")
	prefs.rows[2].seconds.SetText("30")
	prefs.mute.SetChecked(true)
	prefs.volume.SetValue(0.4)
	prefs.language.SetSelected("English")

	test.Tap(prefs.save)

	assert.Equal(t, []time.Duration{2 * time.Minute, time.Second, 149 * time.Second}, saved.Durations)
	assert.True(t, saved.Muted)
	assert.InDelta(t, 0.4, saved.Volume, 1e-9)
	assert.Equal(t, i18n.English, saved.Language)
	assert.Equal(t, "2", prefs.rows[1].minutes.Text)
	assert.Equal(t, "1", prefs.rows[1].seconds.Text)
}

func TestWindowAddMarker(t *testing.T) {
	var saved Settings
	prefs := newTestWindow(t, func(settings Settings) { saved = settings })

	test.Tap(prefs.addButton)
	require.Len(t, prefs.rows, 4)
	assert.Equal(t, "25", prefs.rows[3].minutes.Text)

	test.Tap(prefs.save)
	assert.Equal(t, []time.Duration{10 * time.Minute, 5 * time.Minute, 5 * time.Minute, 5 * time.Minute}, saved.Durations)
}
