//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/gpiod"

	"loopswitch/config"
	"loopswitch/debug"
	"loopswitch/switcher"
)

// Chardev drives the switcher through the Linux GPIO character device
type Chardev struct {
	buttons *gpiod.Lines
	relays  *gpiod.Lines
	mute    *gpiod.Lines
	patch   *gpiod.Lines
	bank    *gpiod.Lines
}

// OpenChardev requests every line from chip. Outputs start low.
func OpenChardev(chip string, pins config.PinConfig) (*Chardev, error) {
	c := &Chardev{}
	var err error

	if c.buttons, err = gpiod.RequestLines(chip, pins.Buttons[:], gpiod.AsInput, gpiod.WithPullUp); err != nil {
		return nil, fmt.Errorf("request buttons: %w", err)
	}
	if c.relays, err = gpiod.RequestLines(chip, pins.Relays[:], gpiod.AsOutput(levels(0, 8)...)); err != nil {
		c.Close()
		return nil, fmt.Errorf("request relays: %w", err)
	}
	if c.mute, err = gpiod.RequestLines(chip, []int{pins.Mute}, gpiod.AsOutput(0)); err != nil {
		c.Close()
		return nil, fmt.Errorf("request mute: %w", err)
	}
	if c.patch, err = gpiod.RequestLines(chip, pins.PatchLEDs[:], gpiod.AsOutput(levels(0, 8)...)); err != nil {
		c.Close()
		return nil, fmt.Errorf("request patch leds: %w", err)
	}
	if c.bank, err = gpiod.RequestLines(chip, pins.BankLEDs[:], gpiod.AsOutput(levels(0, 3)...)); err != nil {
		c.Close()
		return nil, fmt.Errorf("request bank leds: %w", err)
	}
	return c, nil
}

// Sample reports idle if the lines cannot be read
func (c *Chardev) Sample() switcher.RawMask {
	vals := make([]int, switcher.NumButtons)
	if err := c.buttons.Values(vals); err != nil {
		debug.LogEvery(1000, "gpiod", "read buttons: %v", err)
		return switcher.Idle
	}
	return maskOf(vals)
}

func (c *Chardev) WriteRelays(m switcher.LoopMask) error {
	return c.relays.SetValues(levels(uint8(m), 8))
}

func (c *Chardev) SetMute(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return c.mute.SetValues([]int{v})
}

func (c *Chardev) SetPatchLEDs(lines uint8) error {
	return c.patch.SetValues(levels(lines, 8))
}

func (c *Chardev) SetBankLEDs(lines uint8) error {
	return c.bank.SetValues(levels(lines, 3))
}

// Close releases every requested line
func (c *Chardev) Close() error {
	var errs []error
	for _, l := range []*gpiod.Lines{c.relays, c.mute, c.patch, c.bank, c.buttons} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
