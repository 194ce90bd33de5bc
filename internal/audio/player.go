package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// ErrNotInitialized indicates PlayChime was called before Init succeeded.
var ErrNotInitialized = errors.New("audio not initialized")

// Chimer plays a chime with the given strength.
type Chimer interface {
	PlayChime(count int) error
}

// Player plays synthesized chimes through the system audio device.
type Player struct {
	mu      sync.Mutex
	logger  *log.Logger
	context *oto.Context
	buffers map[int][]byte
	active  []*oto.Player
	volume  float64
	muted   bool
}

var _ Chimer = &Player{}

// NewPlayer creates a player at full volume. No device is opened until Init.
func NewPlayer(logger *log.Logger) *Player {
	return &Player{
		logger:  logger,
		buffers: make(map[int][]byte),
		volume:  1,
	}
}

// Init opens the audio device and renders the chime buffers. Calling Init
// again after success is a no-op.
func (player *Player) Init() error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.context != nil {
		return nil
	}

	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	for count := 1; count <= 3; count++ {
		player.buffers[count] = Synthesize(count, SampleRate)
	}
	player.context = context
	player.logger.Debug("audio ready", "sample_rate", SampleRate)
	return nil
}

// Ready reports whether Init succeeded.
func (player *Player) Ready() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.context != nil
}

// PlayChime starts playing count strikes and returns without waiting.
func (player *Player) PlayChime(count int) error {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.context == nil {
		return ErrNotInitialized
	}
	if err := player.context.Err(); err != nil {
		return fmt.Errorf("audio device: %w", err)
	}

	count = NormalizeCount(count)
	voice := player.context.NewPlayer(bytes.NewReader(player.buffers[count]))
	voice.SetVolume(player.effectiveVolumeLocked())
	voice.Play()
	player.active = append(player.active, voice)

	go player.release(voice, ChimeLength(count))
	return nil
}

// SetVolume sets the output volume in [0, 1].
func (player *Player) SetVolume(value float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volume = ClampVolume(value)
	player.applyVolumeLocked()
}

// SetMuted silences output without losing the volume setting.
func (player *Player) SetMuted(muted bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.muted = muted
	player.applyVolumeLocked()
}

// Volume returns the configured volume.
func (player *Player) Volume() float64 {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.volume
}

// Muted reports whether output is muted.
func (player *Player) Muted() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.muted
}

// Close stops every active chime.
func (player *Player) Close() error {
	player.mu.Lock()
	active := player.active
	player.active = nil
	player.mu.Unlock()

	var errs []error
	for _, voice := range active {
		voice.Pause()
		if err := voice.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (player *Player) effectiveVolumeLocked() float64 {
	if player.muted {
		return 0
	}
	return player.volume
}

func (player *Player) applyVolumeLocked() {
	volume := player.effectiveVolumeLocked()
	for _, voice := range player.active {
		voice.SetVolume(volume)
	}
}

func (player *Player) release(voice *oto.Player, length time.Duration) {
	time.Sleep(length)
	for voice.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}

	player.mu.Lock()
	found := false
	for index, candidate := range player.active {
		if candidate == voice {
			player.active = append(player.active[:index], player.active[index+1:]...)
			found = true
			break
		}
	}
	player.mu.Unlock()

	// Close already released it.
	if !found {
		return
	}
	if err := voice.Close(); err != nil {
		player.logger.Warn("close chime voice", "error", err)
	}
}

// Bell writes one BEL character per strike, for terminals without audio.
type Bell struct {
	Writer io.Writer
}

var _ Chimer = Bell{}

// PlayChime writes NormalizeCount(count) BEL characters.
func (bell Bell) PlayChime(count int) error {
	if bell.Writer == nil {
		return nil
	}
	_, err := bell.Writer.Write(bytes.Repeat([]byte{'\a'}, NormalizeCount(count)))
	if err != nil {
		return fmt.Errorf("write bell: %w", err)
	}
	return nil
}
