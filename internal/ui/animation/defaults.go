package animation

import "time"

// DefaultConfig returns the pulse timing used by the display window.
func DefaultConfig() Config {
	return Config{
		FlashOn:  180 * time.Millisecond,
		FlashOff: 140 * time.Millisecond,
		Settle:   60 * time.Millisecond,
	}
}
