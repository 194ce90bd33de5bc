package animation

import (
	"sync"
	"time"

	"talktimer/internal/core/timekeeper"

	"fyne.io/fyne/v2"
)

// ticker is the part of *fyne.Animation that Frames drives.
type ticker interface {
	Start()
	Stop()
}

type frameRequest struct {
	id       timekeeper.FrameID
	callback func()
}

// Frames implements timekeeper.FrameScheduler on top of a repeating fyne
// animation, so callbacks run on the render goroutine once per display frame.
// The animation only runs while a request is pending.
type Frames struct {
	mu        sync.Mutex
	nextID    timekeeper.FrameID
	pending   []frameRequest
	inFlight  map[timekeeper.FrameID]bool
	run       uint64
	newTicker func(tick func(float32)) ticker
	active    ticker
}

var _ timekeeper.FrameScheduler = &Frames{}

// NewFrames creates a scheduler backed by fyne.NewAnimation. It needs a
// running fyne app.
func NewFrames() *Frames {
	return &Frames{newTicker: newAnimationTicker}
}

func newAnimationTicker(tick func(float32)) ticker {
	animation := fyne.NewAnimation(time.Second, tick)
	animation.Curve = fyne.AnimationLinear
	animation.RepeatCount = fyne.AnimationRepeatForever
	return animation
}

// RequestFrame queues callback for the next animation tick.
func (frames *Frames) RequestFrame(callback func()) timekeeper.FrameID {
	frames.mu.Lock()
	frames.nextID++
	id := frames.nextID
	frames.pending = append(frames.pending, frameRequest{id: id, callback: callback})
	start := frames.active == nil
	if start {
		frames.run++
		run := frames.run
		frames.active = frames.newTicker(func(float32) { frames.tick(run) })
	}
	active := frames.active
	frames.mu.Unlock()

	if start {
		active.Start()
	}
	return id
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (frames *Frames) CancelFrame(id timekeeper.FrameID) {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	for index, request := range frames.pending {
		if request.id == id {
			frames.pending = append(frames.pending[:index], frames.pending[index+1:]...)
			return
		}
	}
	delete(frames.inFlight, id)
}

// Pending returns the number of queued requests.
func (frames *Frames) Pending() int {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	return len(frames.pending)
}

// tick runs every request queued before it started. Requests made by those
// callbacks wait for the following tick. Ticks from a stopped animation are
// ignored.
func (frames *Frames) tick(run uint64) {
	frames.mu.Lock()
	if run != frames.run || frames.active == nil {
		frames.mu.Unlock()
		return
	}
	batch := frames.pending
	frames.pending = nil
	var idle ticker
	if len(batch) == 0 {
		idle = frames.active
		frames.active = nil
	}
	frames.inFlight = make(map[timekeeper.FrameID]bool, len(batch))
	for _, request := range batch {
		frames.inFlight[request.id] = true
	}
	frames.mu.Unlock()

	if idle != nil {
		idle.Stop()
		return
	}
	for _, request := range batch {
		if frames.stillWanted(request.id) {
			request.callback()
		}
	}
}

// stillWanted reports false when an earlier callback of the same batch
// cancelled id.
func (frames *Frames) stillWanted(id timekeeper.FrameID) bool {
	frames.mu.Lock()
	defer frames.mu.Unlock()
	wanted := frames.inFlight[id]
	delete(frames.inFlight, id)
	return wanted
}
