package audio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talktimer/internal/audio"
)

func TestNormalizeCount(t *testing.T) {
	assert.Equal(t, 1, audio.NormalizeCount(-5))
	assert.Equal(t, 1, audio.NormalizeCount(0))
	assert.Equal(t, 1, audio.NormalizeCount(1))
	assert.Equal(t, 2, audio.NormalizeCount(2))
	assert.Equal(t, 3, audio.NormalizeCount(3))
	assert.Equal(t, 3, audio.NormalizeCount(9))
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, audio.ClampVolume(math.NaN()))
	assert.Equal(t, 0.0, audio.ClampVolume(-1))
	assert.Equal(t, 0.4, audio.ClampVolume(0.4))
	assert.Equal(t, 1.0, audio.ClampVolume(3))
}

func TestChimeLengthGrowsWithCount(t *testing.T) {
	assert.Less(t, audio.ChimeLength(1), audio.ChimeLength(2))
	assert.Less(t, audio.ChimeLength(2), audio.ChimeLength(3))
	assert.Equal(t, audio.ChimeLength(3), audio.ChimeLength(10))
}

func TestSynthesizeLayout(t *testing.T) {
	const rate = 8000
	for count := 1; count <= 3; count++ {
		pcm := audio.Synthesize(count, rate)
		frames := int(audio.ChimeLength(count).Seconds() * rate)
		require.Len(t, pcm, frames*4)

		var peak int16
		for offset := 0; offset < len(pcm); offset += 4 {
			left := int16(binary.LittleEndian.Uint16(pcm[offset:]))
			right := int16(binary.LittleEndian.Uint16(pcm[offset+2:]))
			assert.Equal(t, left, right)
			if left > peak {
				peak = left
			}
		}
		assert.Greater(t, peak, int16(1000), "chime %d should be audible", count)
	}
}

func TestSynthesizeStartsSilent(t *testing.T) {
	pcm := audio.Synthesize(1, audio.SampleRate)
	first := int16(binary.LittleEndian.Uint16(pcm))
	assert.Equal(t, int16(0), first)
}

func TestPlayerRequiresInit(t *testing.T) {
	player := audio.NewPlayer(log.New(&bytes.Buffer{}))

	err := player.PlayChime(2)
	assert.True(t, errors.Is(err, audio.ErrNotInitialized))
	assert.False(t, player.Ready())
	assert.NoError(t, player.Close())
}

func TestPlayerVolumeAndMute(t *testing.T) {
	player := audio.NewPlayer(log.New(&bytes.Buffer{}))
	assert.Equal(t, 1.0, player.Volume())

	player.SetVolume(0.25)
	player.SetMuted(true)
	assert.Equal(t, 0.25, player.Volume())
	assert.True(t, player.Muted())

	player.SetVolume(7)
	assert.Equal(t, 1.0, player.Volume())
}

func TestBellWritesOneCharacterPerStrike(t *testing.T) {
	var out bytes.Buffer
	bell := audio.Bell{Writer: &out}

	require.NoError(t, bell.PlayChime(2))
	require.NoError(t, bell.PlayChime(8))
	assert.Equal(t, "\a\a\a\a\a", out.String())

	assert.NoError(t, audio.Bell{}.PlayChime(1))
}

func TestChimeLengthOfSingleStrike(t *testing.T) {
	assert.Equal(t, 1800*time.Millisecond, audio.ChimeLength(1))
}
