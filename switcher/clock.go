package switcher

import "time"

// Clock is the only way the switcher suspends. Every wait blocks the whole
// control loop, which is what provides debounce.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock waits on the wall clock
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Timing holds every fixed delay of the control loop
type Timing struct {
	// ShortPress is the first checkpoint after an activation
	ShortPress time.Duration
	// LongPress is the total hold time, measured from the activation
	LongPress time.Duration
	// Debounce is the dead-time after a gesture
	Debounce time.Duration

	PreMute  time.Duration
	PostMute time.Duration

	BlinkOn    time.Duration
	BlinkOff   time.Duration
	BlinkTimes int

	// Poll is the idle wait between samples
	Poll time.Duration
}

// DefaultTiming is tuned for mechanical stomp switches and signal relays
func DefaultTiming() Timing {
	return Timing{
		ShortPress: 200 * time.Millisecond,
		LongPress:  500 * time.Millisecond,
		Debounce:   500 * time.Millisecond,
		PreMute:    15 * time.Millisecond,
		PostMute:   15 * time.Millisecond,
		BlinkOn:    150 * time.Millisecond,
		BlinkOff:   150 * time.Millisecond,
		BlinkTimes: 3,
		Poll:       time.Millisecond,
	}
}

// longRemainder is the wait between the short and long checkpoints
func (t Timing) longRemainder() time.Duration {
	if t.LongPress <= t.ShortPress {
		return 0
	}
	return t.LongPress - t.ShortPress
}
