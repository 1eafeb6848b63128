package switcher

import "fmt"

const (
	NumButtons = 8
	NumPairs   = NumButtons / 2
	NumBanks   = 4
	NumPatches = 8

	// NumSlots is the size of the persisted patch table in bytes
	NumSlots = NumBanks * NumPatches
)

// Button identifies one footswitch (0-7)
type Button int

// Pair identifies two adjacent footswitches {2p, 2p+1}
type Pair int

// Pair returns the pair a button belongs to
func (b Button) Pair() Pair {
	return Pair(b / 2)
}

// Low returns the lower button of the pair
func (p Pair) Low() Button {
	return Button(2 * p)
}

// High returns the higher button of the pair
func (p Pair) High() Button {
	return Button(2*p + 1)
}

// RawMask is a snapshot of the eight button lines. Lines are active-low:
// a cleared bit means the button is held down.
type RawMask uint8

// Idle is the mask with every button released
const Idle RawMask = 0xFF

// Pressed returns the held buttons as an active-high bit set
func (m RawMask) Pressed() uint8 {
	return ^uint8(m)
}

func (m RawMask) String() string {
	return fmt.Sprintf("%08b", uint8(m))
}

// SingleMask returns the raw mask with only b held
func SingleMask(b Button) RawMask {
	return Idle &^ RawMask(1<<uint(b))
}

// ChordMask returns the raw mask with both buttons of p held
func ChordMask(p Pair) RawMask {
	return SingleMask(p.Low()) & SingleMask(p.High())
}

// Bank is one of four groups of eight patches
type Bank int

// PatchIndex addresses a patch inside a bank
type PatchIndex int

// LoopMask is the set of engaged loops; bit i set engages loop i
type LoopMask uint8

// Toggle flips loop b
func (m LoopMask) Toggle(b Button) LoopMask {
	return m ^ LoopMask(1<<uint(b))
}

// Engaged reports whether loop i is in the signal path
func (m LoopMask) Engaged(i int) bool {
	return m&(1<<uint(i)) != 0
}

func (m LoopMask) String() string {
	return fmt.Sprintf("%08b", uint8(m))
}

// PatchTable holds every stored loop mask, indexed [bank][patch]
type PatchTable [NumBanks][NumPatches]LoopMask

// Address returns the persistent store address of a slot
func Address(b Bank, p PatchIndex) int {
	return int(b)*NumPatches + int(p)
}

// SessionState is the live configuration driving the relays. Loaded may
// differ from the stored patch until it is saved.
type SessionState struct {
	Bank   Bank
	Patch  PatchIndex
	Loaded LoopMask
}

// Candidate is a recognized raw mask: one button alone, or both buttons of a pair
type Candidate struct {
	Chord  bool
	Button Button // valid when !Chord
	Pair   Pair
}

// Mask returns the raw mask this candidate was recognized from
func (c Candidate) Mask() RawMask {
	if c.Chord {
		return ChordMask(c.Pair)
	}
	return SingleMask(c.Button)
}

// Recognize maps a raw mask to one of the twelve recognized patterns.
// Anything else, including idle, reports false.
func Recognize(m RawMask) (Candidate, bool) {
	pressed := m.Pressed()
	if pressed == 0 {
		return Candidate{}, false
	}
	for p := Pair(0); p < NumPairs; p++ {
		low := uint8(1) << uint(p.Low())
		high := uint8(1) << uint(p.High())
		switch pressed {
		case low:
			return Candidate{Button: p.Low(), Pair: p}, true
		case high:
			return Candidate{Button: p.High(), Pair: p}, true
		case low | high:
			return Candidate{Chord: true, Pair: p}, true
		}
	}
	return Candidate{}, false
}
