package main

type audioState int

const (
	// audioAvailable means the device was already open.
	audioAvailable audioState = iota
	audioOpened
	audioFailed
	// audioSkipped means an earlier failure suppressed an automatic retry.
	audioSkipped
)

// audioGate opens the audio device lazily. After a failure only explicit
// requests retry, so marker crossings do not repeat the same error.
type audioGate struct {
	ready  func() bool
	init   func() error
	failed bool
}

func (gate *audioGate) open(explicit bool) (audioState, error) {
	if gate.ready() {
		return audioAvailable, nil
	}
	if gate.failed && !explicit {
		return audioSkipped, nil
	}
	if err := gate.init(); err != nil {
		gate.failed = true
		return audioFailed, err
	}
	gate.failed = false
	return audioOpened, nil
}

func (state audioState) usable() bool {
	return state == audioAvailable || state == audioOpened
}
