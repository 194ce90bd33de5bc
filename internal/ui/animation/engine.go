// Package animation holds the fyne-side motion of the timer window: the frame
// scheduler that drives the engine and the pulse shown on marker crossings.
package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains pulse timing values.
type Config struct {
	FlashOn  time.Duration
	FlashOff time.Duration
	// Settle delays the first flash so it lands after the label repaint.
	Settle time.Duration
}

// Engine flashes a highlight a number of times per marker crossing.
type Engine struct {
	mu     sync.Mutex
	config Config
	update func(highlighted bool)
	cancel context.CancelFunc
}

// New creates a pulse engine. update is called from a worker goroutine; UI
// code must hop to the render thread itself.
func New(config Config, update func(highlighted bool)) *Engine {
	return &Engine{
		config: config,
		update: update,
	}
}

// Pulse flashes count times, replacing any pulse still running.
func (engine *Engine) Pulse(ctx context.Context, count int) {
	if count < 1 {
		count = 1
	}
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.update(false)
		if !sleepWithContext(runCtx, engine.config.Settle) {
			return
		}
		for flash := 0; flash < count; flash++ {
			engine.update(true)
			if !sleepWithContext(runCtx, engine.config.FlashOn) {
				return
			}
			engine.update(false)
			if !sleepWithContext(runCtx, engine.config.FlashOff) {
				return
			}
		}
	})
}

// Stop terminates any active pulse.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
