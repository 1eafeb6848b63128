package switcher

import (
	"errors"
	"time"
)

const ms = time.Millisecond

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Sleep(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// step sets the button lines to mask from time at onwards
type step struct {
	at   time.Duration
	mask RawMask
}

type hwEvent struct {
	at    time.Duration
	kind  string
	value uint8
}

// fakeHW plays a scripted input against the fake clock and records every
// output write.
type fakeHW struct {
	clock  *fakeClock
	script []step

	relays    LoopMask
	mute      bool
	patchLEDs uint8
	bankLEDs  uint8
	events    []hwEvent

	relayErr error
}

func (h *fakeHW) Sample() RawMask {
	m := Idle
	for _, s := range h.script {
		if s.at > h.clock.now {
			break
		}
		m = s.mask
	}
	return m
}

func (h *fakeHW) WriteRelays(m LoopMask) error {
	h.record("relays", uint8(m))
	if h.relayErr != nil {
		return h.relayErr
	}
	h.relays = m
	return nil
}

func (h *fakeHW) SetMute(on bool) error {
	v := uint8(0)
	if on {
		v = 1
	}
	h.record("mute", v)
	h.mute = on
	return nil
}

func (h *fakeHW) SetPatchLEDs(lines uint8) error {
	h.record("patch", lines)
	h.patchLEDs = lines
	return nil
}

func (h *fakeHW) SetBankLEDs(lines uint8) error {
	h.record("bank", lines)
	h.bankLEDs = lines
	return nil
}

func (h *fakeHW) record(kind string, v uint8) {
	h.events = append(h.events, hwEvent{at: h.clock.now, kind: kind, value: v})
}

func (h *fakeHW) eventsOf(kind string) []hwEvent {
	var out []hwEvent
	for _, e := range h.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// hold scripts mask from start until release, then idle
func hold(mask RawMask, start, release time.Duration) []step {
	return []step{{at: start, mask: mask}, {at: release, mask: Idle}}
}

type fakeNV struct {
	data   [NumSlots]byte
	writes []int
	err    error
}

var errStore = errors.New("store offline")

func (n *fakeNV) Byte(addr int) (byte, error) {
	if n.err != nil {
		return 0, n.err
	}
	return n.data[addr], nil
}

func (n *fakeNV) SetByte(addr int, b byte) error {
	if n.err != nil {
		return n.err
	}
	n.writes = append(n.writes, addr)
	n.data[addr] = b
	return nil
}

func (n *fakeNV) Size() int {
	return len(n.data)
}

func nvFromTable(t PatchTable) *fakeNV {
	nv := &fakeNV{}
	for b := Bank(0); b < NumBanks; b++ {
		for p := PatchIndex(0); p < NumPatches; p++ {
			nv.data[Address(b, p)] = byte(t[b][p])
		}
	}
	return nv
}

// testTable gives every slot a distinct mask
func testTable() PatchTable {
	var t PatchTable
	for b := 0; b < NumBanks; b++ {
		for p := 0; p < NumPatches; p++ {
			t[b][p] = LoopMask(b*16 + p*3 + 1)
		}
	}
	return t
}
