package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"loopswitch/config"
	"loopswitch/switcher"
)

// RPIO drives a Raspberry Pi through /dev/gpiomem
type RPIO struct {
	buttons [8]rpio.Pin
	relays  [8]rpio.Pin
	mute    rpio.Pin
	patch   [8]rpio.Pin
	bank    [3]rpio.Pin
}

// OpenRPIO maps GPIO memory and configures every line. Outputs start low.
func OpenRPIO(pins config.PinConfig) (*RPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	r := &RPIO{}
	for i, p := range pins.Buttons {
		pin := rpio.Pin(p)
		pin.Input()
		pin.PullUp()
		r.buttons[i] = pin
	}
	for i, p := range pins.Relays {
		r.relays[i] = output(p)
	}
	for i, p := range pins.PatchLEDs {
		r.patch[i] = output(p)
	}
	for i, p := range pins.BankLEDs {
		r.bank[i] = output(p)
	}
	r.mute = output(pins.Mute)
	return r, nil
}

func output(p int) rpio.Pin {
	pin := rpio.Pin(p)
	pin.Output()
	pin.Low()
	return pin
}

func (r *RPIO) Sample() switcher.RawMask {
	vals := make([]int, len(r.buttons))
	for i, pin := range r.buttons {
		if pin.Read() == rpio.High {
			vals[i] = 1
		}
	}
	return maskOf(vals)
}

func (r *RPIO) WriteRelays(m switcher.LoopMask) error {
	write(r.relays[:], uint8(m))
	return nil
}

func (r *RPIO) SetMute(on bool) error {
	if on {
		r.mute.High()
	} else {
		r.mute.Low()
	}
	return nil
}

func (r *RPIO) SetPatchLEDs(lines uint8) error {
	write(r.patch[:], lines)
	return nil
}

func (r *RPIO) SetBankLEDs(lines uint8) error {
	write(r.bank[:], lines)
	return nil
}

// Close drops every output and unmaps GPIO memory
func (r *RPIO) Close() error {
	write(r.relays[:], 0)
	write(r.patch[:], 0)
	write(r.bank[:], 0)
	r.mute.Low()
	return rpio.Close()
}

func write(pins []rpio.Pin, v uint8) {
	for i, on := range levels(v, len(pins)) {
		if on != 0 {
			pins[i].High()
		} else {
			pins[i].Low()
		}
	}
}
