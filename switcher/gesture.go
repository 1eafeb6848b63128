package switcher

import "fmt"

// GestureKind identifies a classified user action
type GestureKind int

const (
	GestureNone GestureKind = iota
	PressShort
	PressLong
	ChordLong
)

func (k GestureKind) String() string {
	switch k {
	case PressShort:
		return "short"
	case PressLong:
		return "long"
	case ChordLong:
		return "chord"
	default:
		return "none"
	}
}

// Gesture is one classified activation. Button is set for PressShort and
// PressLong, Pair for ChordLong.
type Gesture struct {
	Kind   GestureKind
	Button Button
	Pair   Pair
}

func (g Gesture) String() string {
	switch g.Kind {
	case PressShort, PressLong:
		return fmt.Sprintf("%s(%d)", g.Kind, g.Button)
	case ChordLong:
		return fmt.Sprintf("%s(%d)", g.Kind, g.Pair)
	default:
		return "none"
	}
}

// Classifier turns one activation of the input into at most one Gesture by
// re-sampling at fixed checkpoints.
type Classifier struct {
	input  InputSampler
	clock  Clock
	timing Timing
}

func NewClassifier(input InputSampler, clock Clock, timing Timing) *Classifier {
	return &Classifier{input: input, clock: clock, timing: timing}
}

// Classify follows the activation that produced first. It returns the
// gesture (GestureNone if the activation did not complete one) and whether
// the caller must hold the dead-time before polling again.
func (c *Classifier) Classify(first RawMask) (Gesture, bool) {
	cand, ok := Recognize(first)
	if !ok {
		return Gesture{}, false
	}

	c.clock.Sleep(c.timing.ShortPress)
	now := c.input.Sample()
	switch {
	case now == Idle:
		if cand.Chord {
			// chord let go early: nothing fires, but the release still bounces
			return Gesture{}, true
		}
		return Gesture{Kind: PressShort, Button: cand.Button, Pair: cand.Pair}, true
	case now == cand.Mask():
	case !cand.Chord && now == ChordMask(cand.Pair):
		// partner button joined late
		cand = Candidate{Chord: true, Pair: cand.Pair}
	default:
		return Gesture{}, false
	}

	c.clock.Sleep(c.timing.longRemainder())
	if c.input.Sample() != cand.Mask() {
		return Gesture{}, false
	}
	if cand.Chord {
		return Gesture{Kind: ChordLong, Pair: cand.Pair}, true
	}
	return Gesture{Kind: PressLong, Button: cand.Button, Pair: cand.Pair}, true
}
