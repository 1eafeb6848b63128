package midi

import (
	"fmt"
	"sync/atomic"

	"loopswitch/debug"
	"loopswitch/switcher"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Board uses a MIDI pad controller (or a MIDI foot controller) as the
// footswitch unit. Eight consecutive notes or CCs from the base note are the
// footswitches; pad LEDs show patch, relays, bank and mute.
type Board struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()
	baseNote uint8

	held   atomic.Uint32 // pressed footswitches, active-high
	events chan PadEvent

	// last color sent per note, to skip redundant messages
	sent map[uint8]uint8
}

func newBoard(id string, baseNote uint8) *Board {
	return &Board{
		id:       id,
		baseNote: baseNote,
		events:   make(chan PadEvent, 32),
		sent:     make(map[uint8]uint8),
	}
}

// Open finds the named ports and starts listening. outName may be empty to
// use the input's name.
func Open(inName, outName string, baseNote uint8) (*Board, error) {
	if outName == "" {
		outName = inName
	}
	ports, err := scan()
	if err != nil {
		return nil, err
	}
	inPort, err := findIn(ports.inPorts, inName)
	if err != nil {
		return nil, err
	}
	// LED feedback is optional; foot controllers often have no MIDI input
	outPort, err := findOut(ports.outPorts, outName)
	if err != nil {
		debug.Log("midi", "%v, running without LEDs", err)
		outPort = nil
	}

	b := newBoard(inPort.String(), baseNote)
	b.inPort = inPort
	b.outPort = outPort

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		b.send = send

		if isLaunchpad(outPort.String()) {
			// Send SysEx to switch to Programmer mode
			// F0 00 20 29 02 0C 00 7F F7
			b.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
		}
	}

	// Open input
	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		b.handle(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	b.stopFunc = stop

	debug.Log("midi", "footswitch board %q base note %d", b.id, baseNote)
	return b, nil
}

func (b *Board) ID() string {
	return b.id
}

// Events returns footswitch transitions; events are dropped if nobody reads
func (b *Board) Events() <-chan PadEvent {
	return b.events
}

// handle runs on the driver's callback goroutine
func (b *Board) handle(msg gomidi.Message) {
	var channel, key, velocity, cc, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		b.set(key, velocity > 0, velocity)
	case msg.GetNoteOff(&channel, &key, &velocity):
		b.set(key, false, 0)
	case msg.GetControlChange(&channel, &cc, &value):
		b.set(cc, value >= 64, value)
	}
}

func (b *Board) set(note uint8, down bool, velocity uint8) {
	if note < b.baseNote || note >= b.baseNote+switcher.NumButtons {
		return
	}
	btn := int(note - b.baseNote)
	bit := uint32(1) << uint(btn)
	for {
		old := b.held.Load()
		next := old &^ bit
		if down {
			next = old | bit
		}
		if b.held.CompareAndSwap(old, next) {
			break
		}
	}

	select {
	case b.events <- PadEvent{Button: btn, Down: down, Velocity: velocity}:
	default:
	}
}

// Sample returns the held pads as an active-low mask
func (b *Board) Sample() switcher.RawMask {
	return switcher.RawMask(^uint8(b.held.Load()))
}

func (b *Board) WriteRelays(m switcher.LoopMask) error {
	return b.row(b.baseNote+relayRowOffset, uint8(m), 8, ColorOrange)
}

func (b *Board) SetMute(on bool) error {
	color := ColorOff
	if on {
		color = ColorRed
	}
	return b.light(b.baseNote+muteOffset, color)
}

func (b *Board) SetPatchLEDs(lines uint8) error {
	return b.row(b.baseNote, lines, 8, ColorBrightGreen)
}

func (b *Board) SetBankLEDs(lines uint8) error {
	return b.row(b.baseNote+bankRowOffset, lines, 3, ColorBlue)
}

func (b *Board) row(first, lines uint8, n int, color uint8) error {
	for i := 0; i < n; i++ {
		c := ColorOff
		if lines&(1<<uint(i)) != 0 {
			c = color
		}
		if err := b.light(first+uint8(i), c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) light(note, color uint8) error {
	if b.send == nil {
		return nil
	}
	if prev, ok := b.sent[note]; ok && prev == color {
		return nil
	}
	if err := b.send(gomidi.NoteOn(0, note, color)); err != nil {
		return fmt.Errorf("led %d: %w", note, err)
	}
	b.sent[note] = color
	return nil
}

// Close clears the LEDs and stops listening
func (b *Board) Close() error {
	if b.send != nil {
		b.row(b.baseNote, 0, 8, ColorOff)
		b.row(b.baseNote+relayRowOffset, 0, 8, ColorOff)
		b.row(b.baseNote+bankRowOffset, 0, 3, ColorOff)
		b.light(b.baseNote+muteOffset, ColorOff)
	}
	if b.stopFunc != nil {
		b.stopFunc()
	}
	return nil
}
