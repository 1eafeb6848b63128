//go:build !linux

package gpio

import (
	"errors"

	"loopswitch/config"
	"loopswitch/switcher"
)

var errNoChardev = errors.New("gpiod backend needs linux")

// Chardev is only available on linux
type Chardev struct{}

func OpenChardev(chip string, pins config.PinConfig) (*Chardev, error) {
	return nil, errNoChardev
}

func (c *Chardev) Sample() switcher.RawMask { return switcher.Idle }
func (c *Chardev) WriteRelays(m switcher.LoopMask) error { return errNoChardev }
func (c *Chardev) SetMute(on bool) error { return errNoChardev }
func (c *Chardev) SetPatchLEDs(lines uint8) error { return errNoChardev }
func (c *Chardev) SetBankLEDs(lines uint8) error { return errNoChardev }
func (c *Chardev) Close() error { return nil }
