package midi

// PadEvent is sent when a footswitch pad goes down or up
type PadEvent struct {
	Button   int
	Down     bool
	Velocity uint8
}

// Launchpad X color palette (velocity values 0-127)
// See Programmer's Reference Manual for full palette
const (
	ColorOff          uint8 = 0
	ColorDimRed       uint8 = 7
	ColorRed          uint8 = 5
	ColorBrightGreen  uint8 = 87
	ColorDimGreen     uint8 = 19
	ColorOrange       uint8 = 9
	ColorBrightOrange uint8 = 84
	ColorBlue         uint8 = 45
	ColorBrightBlue   uint8 = 78
	ColorWhite        uint8 = 3
)

// Board layout relative to the base note. On a Launchpad X in programmer
// mode with base 11 the footswitches are the bottom row, the relay display
// the row above, bank LEDs the third row and mute the right scene button.
const (
	relayRowOffset = 10
	bankRowOffset  = 20
	muteOffset     = 8
)
