// Package panel is a virtual footswitch unit: button lines the simulator
// presses and releases, and relay, mute and LED lines the switcher drives.
package panel

import (
	"sync"

	"loopswitch/switcher"
)

// Snapshot is the visible state of the panel
type Snapshot struct {
	Held      uint8 // pressed buttons, active-high
	Relays    switcher.LoopMask
	Mute      bool
	PatchLEDs uint8
	BankLEDs  uint8
	Writes    int // relay writes so far
}

// Panel is safe for use from the switcher goroutine and the UI goroutine
type Panel struct {
	mu    sync.Mutex
	state Snapshot

	// Notify UI of updates
	UpdateChan chan struct{}
}

func New() *Panel {
	return &Panel{UpdateChan: make(chan struct{}, 1)}
}

// Press holds a button down
func (p *Panel) Press(b switcher.Button) {
	p.update(func(s *Snapshot) { s.Held |= 1 << uint(b) })
}

// Release lets a button up
func (p *Panel) Release(b switcher.Button) {
	p.update(func(s *Snapshot) { s.Held &^= 1 << uint(b) })
}

// Toggle flips a latched button and reports whether it is now held
func (p *Panel) Toggle(b switcher.Button) bool {
	var held bool
	p.update(func(s *Snapshot) {
		s.Held ^= 1 << uint(b)
		held = s.Held&(1<<uint(b)) != 0
	})
	return held
}

// ReleaseAll lets every button up
func (p *Panel) ReleaseAll() {
	p.update(func(s *Snapshot) { s.Held = 0 })
}

func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Panel) Sample() switcher.RawMask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return switcher.RawMask(^p.state.Held)
}

func (p *Panel) WriteRelays(m switcher.LoopMask) error {
	p.update(func(s *Snapshot) {
		s.Relays = m
		s.Writes++
	})
	return nil
}

func (p *Panel) SetMute(on bool) error {
	p.update(func(s *Snapshot) { s.Mute = on })
	return nil
}

func (p *Panel) SetPatchLEDs(lines uint8) error {
	p.update(func(s *Snapshot) { s.PatchLEDs = lines })
	return nil
}

func (p *Panel) SetBankLEDs(lines uint8) error {
	p.update(func(s *Snapshot) { s.BankLEDs = lines })
	return nil
}

func (p *Panel) update(fn func(s *Snapshot)) {
	p.mu.Lock()
	fn(&p.state)
	p.mu.Unlock()

	// coalesce: one pending notification is enough
	select {
	case p.UpdateChan <- struct{}{}:
	default:
	}
}
