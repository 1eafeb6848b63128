package panel

import (
	"testing"
	"time"

	"loopswitch/nvram"
	"loopswitch/switcher"
)

func TestPanelButtons(t *testing.T) {
	p := New()
	if p.Sample() != switcher.Idle {
		t.Fatalf("Expected idle, got %s", p.Sample())
	}

	p.Press(6)
	p.Press(7)
	if p.Sample() != switcher.ChordMask(3) {
		t.Errorf("Expected chord 3, got %s", p.Sample())
	}
	p.Release(6)
	if p.Sample() != switcher.SingleMask(7) {
		t.Errorf("Expected button 7 alone, got %s", p.Sample())
	}
	if p.Toggle(7) {
		t.Error("Expected toggle to release button 7")
	}
	if !p.Toggle(2) {
		t.Error("Expected toggle to hold button 2")
	}
	p.ReleaseAll()
	if p.Sample() != switcher.Idle {
		t.Errorf("Expected idle after ReleaseAll, got %s", p.Sample())
	}
}

func TestPanelOutputsNotify(t *testing.T) {
	p := New()
	p.WriteRelays(0b1001)
	p.SetMute(true)
	p.SetPatchLEDs(0b10)
	p.SetBankLEDs(0b111)

	select {
	case <-p.UpdateChan:
	default:
		t.Fatal("Expected an update notification")
	}
	select {
	case <-p.UpdateChan:
		t.Error("Expected notifications to coalesce")
	default:
	}

	s := p.Snapshot()
	if s.Relays != 0b1001 || !s.Mute || s.PatchLEDs != 0b10 || s.BankLEDs != 0b111 || s.Writes != 1 {
		t.Errorf("Unexpected snapshot %+v", s)
	}
}

type noSleep struct{}

func (noSleep) Sleep(time.Duration) {}

func TestPanelDrivesController(t *testing.T) {
	p := New()
	nv := nvram.NewMemory(switcher.NumSlots)
	nv.SetByte(0, 0b101)
	c := switcher.New(p, nv, noSleep{}, switcher.DefaultTiming())
	if err := c.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	if s := p.Snapshot(); s.Relays != 0b101 || s.PatchLEDs != 1 || s.BankLEDs != 1 || s.Mute {
		t.Fatalf("Unexpected boot panel %+v", s)
	}

	// held through both checkpoints: toggles loop 3
	p.Press(3)
	if !c.Poll() {
		t.Fatal("Expected a gesture")
	}
	p.Release(3)
	if s := p.Snapshot(); s.Relays != 0b1101 {
		t.Errorf("Expected relays 00001101, got %s", s.Relays)
	}
}
