// Package audio renders and plays the marker chimes.
package audio

import (
	"encoding/binary"
	"math"
	"time"

	"talktimer/internal/core/model"
)

// SampleRate is the output rate for synthesized chimes.
const SampleRate = 44100

const (
	channelCount   = 2
	bytesPerSample = 2
	strikeSpacing  = 600 * time.Millisecond
	strikeRing     = 1800 * time.Millisecond
	fundamentalHz  = 880.0
	peakAmplitude  = 0.6
)

// Bell partials as (frequency ratio, relative amplitude, decay per second).
var partials = [...]struct {
	ratio     float64
	amplitude float64
	decay     float64
}{
	{1.0, 1.0, 2.2},
	{2.0, 0.45, 3.1},
	{2.76, 0.3, 4.0},
	{5.4, 0.12, 6.5},
}

// NormalizeCount clamps a chime count to 1..model.MaxChimeCount.
func NormalizeCount(count int) int {
	if count <= 1 {
		return 1
	}
	if count >= model.MaxChimeCount {
		return model.MaxChimeCount
	}
	return count
}

// ClampVolume clamps a volume to [0, 1]. NaN becomes 0.
func ClampVolume(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// ChimeLength returns the playback length of a chime with count strikes.
func ChimeLength(count int) time.Duration {
	count = NormalizeCount(count)
	return time.Duration(count-1)*strikeSpacing + strikeRing
}

// Synthesize renders count bell strikes as interleaved 16-bit little-endian
// stereo PCM at sampleRate.
func Synthesize(count int, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	count = NormalizeCount(count)

	frames := int(ChimeLength(count).Seconds() * float64(sampleRate))
	spacing := int(strikeSpacing.Seconds() * float64(sampleRate))
	mix := make([]float64, frames)
	for strike := 0; strike < count; strike++ {
		renderStrike(mix[strike*spacing:], sampleRate)
	}

	out := make([]byte, frames*channelCount*bytesPerSample)
	for frame, value := range mix {
		sample := uint16(int16(math.Round(clampSample(value) * math.MaxInt16)))
		offset := frame * channelCount * bytesPerSample
		binary.LittleEndian.PutUint16(out[offset:], sample)
		binary.LittleEndian.PutUint16(out[offset+bytesPerSample:], sample)
	}
	return out
}

func renderStrike(buffer []float64, sampleRate int) {
	const attack = 0.004
	for frame := range buffer {
		at := float64(frame) / float64(sampleRate)
		envelope := 1.0
		if at < attack {
			envelope = at / attack
		}
		var value float64
		for _, partial := range partials {
			phase := 2 * math.Pi * fundamentalHz * partial.ratio * at
			value += partial.amplitude * math.Exp(-partial.decay*at) * math.Sin(phase)
		}
		buffer[frame] += peakAmplitude * envelope * value / 1.87
	}
}

func clampSample(value float64) float64 {
	return math.Max(-1, math.Min(1, value))
}
