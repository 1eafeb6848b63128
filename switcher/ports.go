package switcher

// InputSampler reads the current button lines. It must not block or debounce.
type InputSampler interface {
	Sample() RawMask
}

// RelayPort drives the eight relay lines and the separate mute line
type RelayPort interface {
	WriteRelays(m LoopMask) error
	SetMute(on bool) error
}

// LEDPort drives raw indicator lines: eight patch LEDs and three bank LEDs
type LEDPort interface {
	SetPatchLEDs(lines uint8) error
	SetBankLEDs(lines uint8) error
}

// NVStore is a byte-addressable non-volatile array. A single byte write is
// the unit of atomicity.
type NVStore interface {
	Byte(addr int) (byte, error)
	SetByte(addr int, b byte) error
	Size() int
}

// Hardware bundles the physical ports an installation provides
type Hardware interface {
	InputSampler
	RelayPort
	LEDPort
}
