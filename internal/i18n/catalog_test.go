package i18n_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talktimer/internal/i18n"
)

func TestNewFallsBackToDefaultLanguage(t *testing.T) {
	catalog, err := i18n.New("fr")
	require.NoError(t, err)
	assert.Equal(t, i18n.DefaultLanguage, catalog.Language())
}

func TestBellCountPlurals(t *testing.T) {
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "1 bell", catalog.BellCount(1))
	assert.Equal(t, "3 bells", catalog.BellCount(3))

	catalog.SetLanguage(i18n.Japanese)
	assert.Equal(t, "2鈴", catalog.BellCount(2))
}

func TestMarkerHeadingAndNextMarker(t *testing.T) {
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "2 bells at 15:00", catalog.MarkerHeading(2, 15*time.Minute))
	assert.Equal(t, "Next: 3 bells at 20:00", catalog.NextMarker(3, 20*time.Minute))
}

func TestUnknownMessageReturnsID(t *testing.T) {
	catalog, err := i18n.New(i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "noSuchKey", catalog.T("noSuchKey"))
	assert.Equal(t, "Start", catalog.T("start"))
}

func TestToggleNotifiesListeners(t *testing.T) {
	catalog, err := i18n.New(i18n.Japanese)
	require.NoError(t, err)

	var seen []string
	catalog.OnChange(func(lang string) { seen = append(seen, lang) })

	assert.Equal(t, i18n.English, catalog.Toggle())
	assert.Equal(t, i18n.Japanese, catalog.Toggle())
	assert.False(t, catalog.SetLanguage("de"))
	assert.False(t, catalog.SetLanguage(i18n.Japanese))
	assert.Equal(t, []string{i18n.English, i18n.Japanese}, seen)
	assert.Equal(t, "開始", catalog.T("start"))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", i18n.FormatClock(-time.Second))
	assert.Equal(t, "00:01", i18n.FormatClock(1400*time.Millisecond))
	assert.Equal(t, "10:00", i18n.FormatClock(10*time.Minute))
	assert.Equal(t, "75:05", i18n.FormatClock(75*time.Minute+5*time.Second))
}
