package switcher

import (
	"time"

	"loopswitch/debug"
)

// IndicatorDriver shows the selected patch and bank to the player
type IndicatorDriver interface {
	SetPatchIndicator(p PatchIndex)
	SetBankIndicator(b Bank)
	BlinkPatch(p PatchIndex, times int, on, off time.Duration)
}

// PatchLines is the one-hot patch indicator encoding
func PatchLines(p PatchIndex) uint8 {
	return 1 << uint(p)
}

// BankLines is the bank indicator encoding: one-hot over three lines for
// banks 0-2, all three lines for bank 3.
func BankLines(b Bank) uint8 {
	if b >= NumBanks-1 {
		return 0b111
	}
	return 1 << uint(b)
}

// LEDIndicator renders indicator state onto raw LED lines
type LEDIndicator struct {
	port  LEDPort
	clock Clock
}

func NewLEDIndicator(port LEDPort, clock Clock) *LEDIndicator {
	return &LEDIndicator{port: port, clock: clock}
}

func (l *LEDIndicator) SetPatchIndicator(p PatchIndex) {
	l.setPatch(PatchLines(p))
}

func (l *LEDIndicator) SetBankIndicator(b Bank) {
	if err := l.port.SetBankLEDs(BankLines(b)); err != nil {
		debug.Log("led", "bank %d: %v", b, err)
	}
}

// BlinkPatch blocks for the whole sequence and leaves the patch lit
func (l *LEDIndicator) BlinkPatch(p PatchIndex, times int, on, off time.Duration) {
	for i := 0; i < times; i++ {
		l.setPatch(0)
		l.clock.Sleep(off)
		l.setPatch(PatchLines(p))
		l.clock.Sleep(on)
	}
}

func (l *LEDIndicator) setPatch(lines uint8) {
	if err := l.port.SetPatchLEDs(lines); err != nil {
		debug.Log("led", "patch %08b: %v", lines, err)
	}
}
