package switcher

import (
	"context"
	"testing"
)

func newRig(t *testing.T, table PatchTable) (*Controller, *fakeHW, *fakeNV, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	hw := &fakeHW{clock: clock}
	nv := nvFromTable(table)
	c := New(hw, nv, clock, DefaultTiming())
	if err := c.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	hw.events = nil
	clock.now = 0
	return c, hw, nv, clock
}

// play scripts input starting now and runs one poll cycle
func play(c *Controller, hw *fakeHW, clock *fakeClock, script []step) bool {
	hw.script = nil
	for _, s := range script {
		hw.script = append(hw.script, step{at: clock.now + s.at, mask: s.mask})
	}
	return c.Poll()
}

func TestBootAppliesFirstPatch(t *testing.T) {
	var table PatchTable
	table[0][0] = 0b00000101
	clock := &fakeClock{}
	hw := &fakeHW{clock: clock}
	c := New(hw, nvFromTable(table), clock, DefaultTiming())

	if err := c.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	if hw.relays != 0b00000101 {
		t.Errorf("Expected relays 00000101, got %s", hw.relays)
	}
	if hw.mute {
		t.Error("Expected mute released after boot")
	}
	if hw.patchLEDs != 0b1 || hw.bankLEDs != 0b1 {
		t.Errorf("Expected patch and bank LEDs 1, got %08b %08b", hw.patchLEDs, hw.bankLEDs)
	}
	want := SessionState{Bank: 0, Patch: 0, Loaded: 0b101}
	if c.State() != want {
		t.Errorf("Expected state %+v, got %+v", want, c.State())
	}
	if hw.events[0].kind != "relays" || hw.events[0].value != 0 {
		t.Errorf("Expected outputs cleared first, got %+v", hw.events[0])
	}
}

func TestBootStoreFailure(t *testing.T) {
	clock := &fakeClock{}
	hw := &fakeHW{clock: clock}
	c := New(hw, &fakeNV{err: errStore}, clock, DefaultTiming())
	if err := c.Boot(); err == nil {
		t.Fatal("Expected boot to fail when the store cannot be read")
	}
}

func TestPressShortSelectsPatch(t *testing.T) {
	table := testTable()
	for _, bank := range []Bank{0, 2} {
		for btn := Button(0); btn < NumButtons; btn++ {
			c, hw, _, _ := newRig(t, table)
			c.state.Bank = bank

			c.Handle(Gesture{Kind: PressShort, Button: btn, Pair: btn.Pair()})

			st := c.State()
			if st.Patch != PatchIndex(btn) || st.Bank != bank {
				t.Errorf("Expected bank %d patch %d, got %+v", bank, btn, st)
			}
			if st.Loaded != table[bank][btn] || hw.relays != table[bank][btn] {
				t.Errorf("Expected loaded and relays %s, got %s and %s", table[bank][btn], st.Loaded, hw.relays)
			}
			if hw.patchLEDs != 1<<uint(btn) {
				t.Errorf("Expected patch LEDs %08b, got %08b", 1<<uint(btn), hw.patchLEDs)
			}
		}
	}
}

func TestShortPressScenario(t *testing.T) {
	table := testTable()
	c, hw, _, clock := newRig(t, table)

	if !play(c, hw, clock, hold(SingleMask(3), 0, 80*ms)) {
		t.Fatal("Expected a gesture")
	}
	if c.State().Patch != 3 || c.State().Loaded != table[0][3] {
		t.Errorf("Expected patch 3 loaded %s, got %+v", table[0][3], c.State())
	}
	if hw.relays != table[0][3] || hw.patchLEDs != 0b1000 {
		t.Errorf("Expected relays %s and patch LED bit 3, got %s %08b", table[0][3], hw.relays, hw.patchLEDs)
	}

	// 200 short + 15 + 15 bracket + 500 dead-time
	if clock.now != 730*ms {
		t.Errorf("Expected poll cycle to end at 730ms, got %v", clock.now)
	}
	mutes := hw.eventsOf("mute")
	writes := hw.eventsOf("relays")
	if len(mutes) != 2 || len(writes) != 1 {
		t.Fatalf("Expected one bracket, got mutes %+v writes %+v", mutes, writes)
	}
	if mutes[0].value != 1 || mutes[0].at != 200*ms {
		t.Errorf("Expected mute on at 200ms, got %+v", mutes[0])
	}
	if writes[0].at != 215*ms {
		t.Errorf("Expected relay write at 215ms, got %v", writes[0].at)
	}
	if mutes[1].value != 0 || mutes[1].at != 230*ms {
		t.Errorf("Expected mute off at 230ms, got %+v", mutes[1])
	}
}

func TestLongPressTogglesLoop(t *testing.T) {
	table := testTable()
	c, hw, nv, clock := newRig(t, table)
	before := c.State().Loaded

	if !play(c, hw, clock, hold(SingleMask(2), 0, 600*ms)) {
		t.Fatal("Expected a gesture")
	}
	want := before ^ 0b00000100
	if c.State().Loaded != want || hw.relays != want {
		t.Errorf("Expected loaded and relays %s, got %s %s", want, c.State().Loaded, hw.relays)
	}
	if c.Table() != table {
		t.Error("Expected table unchanged by a loop toggle")
	}
	if len(nv.writes) != 0 {
		t.Errorf("Expected no store writes, got %v", nv.writes)
	}
	if c.State().Patch != 0 || len(hw.eventsOf("patch")) != 0 {
		t.Error("Expected no patch change on a loop toggle")
	}
}

func TestToggleIsInvolution(t *testing.T) {
	for btn := Button(0); btn < NumButtons; btn++ {
		c, _, _, _ := newRig(t, testTable())
		before := c.State().Loaded
		g := Gesture{Kind: PressLong, Button: btn, Pair: btn.Pair()}

		c.Handle(g)
		if c.State().Loaded != before.Toggle(btn) {
			t.Errorf("Expected only bit %d to flip", btn)
		}
		c.Handle(g)
		if c.State().Loaded != before {
			t.Errorf("Expected two toggles of %d to restore %s, got %s", btn, before, c.State().Loaded)
		}
	}
}

func TestSaveChord(t *testing.T) {
	table := testTable()
	c, hw, nv, clock := newRig(t, table)
	c.state.Bank = 1
	c.Handle(Gesture{Kind: PressShort, Button: 5, Pair: 2})
	c.Handle(Gesture{Kind: PressLong, Button: 7, Pair: 3})
	hw.events = nil
	loaded := c.State().Loaded
	start := clock.now

	if !play(c, hw, clock, hold(ChordMask(0), 0, 600*ms)) {
		t.Fatal("Expected a gesture")
	}

	if len(nv.writes) != 1 || nv.writes[0] != Address(1, 5) {
		t.Fatalf("Expected one write at %d, got %v", Address(1, 5), nv.writes)
	}
	if LoopMask(nv.data[Address(1, 5)]) != loaded {
		t.Errorf("Expected stored %s, got %08b", loaded, nv.data[Address(1, 5)])
	}
	if c.Table()[1][5] != loaded {
		t.Errorf("Expected table slot to equal loaded mask %s", loaded)
	}
	if len(hw.eventsOf("relays")) != 0 {
		t.Error("Expected save to leave relays alone")
	}

	blinks := hw.eventsOf("patch")
	if len(blinks) != 6 {
		t.Fatalf("Expected 3 blink cycles, got %+v", blinks)
	}
	at := start + 500*ms
	for i, e := range blinks {
		want := uint8(0)
		if i%2 == 1 {
			want = 1 << 5
		}
		if e.value != want || e.at != at {
			t.Errorf("Blink %d: expected %08b at %v, got %08b at %v", i, want, at, e.value, e.at)
		}
		at += 150 * ms
	}
	if hw.patchLEDs != 1<<5 {
		t.Errorf("Expected patch LED left lit, got %08b", hw.patchLEDs)
	}
}

func TestSaveStoreFailure(t *testing.T) {
	c, hw, nv, _ := newRig(t, testTable())
	nv.err = errStore
	c.Handle(Gesture{Kind: PressLong, Button: 1, Pair: 0})
	hw.events = nil

	c.Handle(Gesture{Kind: ChordLong, Pair: 0})

	if len(hw.eventsOf("patch")) != 0 {
		t.Error("Expected no blink when the write fails")
	}
	if c.Table()[0][0] != c.State().Loaded {
		t.Error("Expected in-memory table updated")
	}
}

func TestBankSaturates(t *testing.T) {
	c, hw, _, _ := newRig(t, testTable())
	before := c.State()

	wantUp := []Bank{1, 2, 3, 3, 3}
	wantLEDs := []uint8{0b010, 0b100, 0b111, 0b111, 0b111}
	for i, want := range wantUp {
		c.Handle(Gesture{Kind: ChordLong, Pair: 2})
		if c.State().Bank != want || hw.bankLEDs != wantLEDs[i] {
			t.Errorf("Bank up %d: expected bank %d LEDs %03b, got %d %03b", i, want, wantLEDs[i], c.State().Bank, hw.bankLEDs)
		}
	}

	wantDown := []Bank{2, 1, 0, 0}
	for i, want := range wantDown {
		c.Handle(Gesture{Kind: ChordLong, Pair: 1})
		if c.State().Bank != want || hw.bankLEDs != BankLines(want) {
			t.Errorf("Bank down %d: expected bank %d, got %d", i, want, c.State().Bank)
		}
	}

	if c.State().Patch != before.Patch || c.State().Loaded != before.Loaded {
		t.Error("Expected bank changes to leave patch and mask alone")
	}
	if len(hw.eventsOf("relays")) != 0 || len(hw.eventsOf("patch")) != 0 {
		t.Error("Expected no relay or patch LED writes on bank change")
	}
}

func TestBankUpAtTopScenario(t *testing.T) {
	c, hw, _, clock := newRig(t, testTable())
	c.state.Bank = 3
	c.indicator.SetBankIndicator(3)
	before := c.State()
	hw.events = nil

	play(c, hw, clock, hold(ChordMask(2), 0, 600*ms))

	if c.State() != before {
		t.Errorf("Expected no change at bank 3, got %+v", c.State())
	}
	if hw.bankLEDs != 0b111 {
		t.Errorf("Expected all bank LEDs lit, got %03b", hw.bankLEDs)
	}
	if len(hw.events) != 0 {
		t.Errorf("Expected no output writes, got %+v", hw.events)
	}
}

func TestResetChord(t *testing.T) {
	table := testTable()
	table[0][0] = 0xFF
	c, hw, nv, clock := newRig(t, table)
	c.Handle(Gesture{Kind: PressShort, Button: 4, Pair: 2})
	c.state.Bank = 2

	play(c, hw, clock, hold(ChordMask(3), 0, 600*ms))

	st := c.State()
	if st.Loaded != 0 || hw.relays != 0 {
		t.Errorf("Expected all loops off, got %s relays %s", st.Loaded, hw.relays)
	}
	if st.Patch != 4 || st.Bank != 2 {
		t.Errorf("Expected bank 2 patch 4 kept, got %+v", st)
	}
	if c.Table() != table || len(nv.writes) != 0 {
		t.Error("Expected reset not to touch the table")
	}
}

func TestUnrecognizedMasksIgnored(t *testing.T) {
	c, hw, _, clock := newRig(t, testTable())
	before := c.State()

	for v := 0; v < 256; v++ {
		m := RawMask(v)
		if _, ok := Recognize(m); ok || m == Idle {
			continue
		}
		if play(c, hw, clock, []step{{0, m}}) {
			t.Errorf("Expected no gesture for %s", m)
		}
	}
	if c.State() != before {
		t.Errorf("Expected state unchanged, got %+v", c.State())
	}
	if len(hw.events) != 0 {
		t.Errorf("Expected no output writes, got %d", len(hw.events))
	}
}

func TestInvalidGesturesIgnored(t *testing.T) {
	c, hw, _, _ := newRig(t, testTable())
	before := c.State()

	for _, g := range []Gesture{
		{},
		{Kind: PressShort, Button: 8},
		{Kind: PressLong, Button: -1},
		{Kind: ChordLong, Pair: 4},
		{Kind: GestureKind(99)},
	} {
		c.Handle(g)
	}
	if c.State() != before || len(hw.events) != 0 {
		t.Error("Expected invalid gestures to be no-ops")
	}
}

func TestRelayMatchesLoadedAfterEveryGesture(t *testing.T) {
	c, hw, _, _ := newRig(t, testTable())
	gestures := []Gesture{
		{Kind: PressShort, Button: 6, Pair: 3},
		{Kind: PressLong, Button: 0, Pair: 0},
		{Kind: ChordLong, Pair: 2},
		{Kind: PressShort, Button: 1, Pair: 0},
		{Kind: ChordLong, Pair: 0},
		{Kind: ChordLong, Pair: 3},
		{Kind: PressLong, Button: 5, Pair: 2},
		{Kind: ChordLong, Pair: 1},
	}
	for _, g := range gestures {
		c.Handle(g)
		if hw.relays != c.State().Loaded {
			t.Errorf("After %s: relays %s, loaded %s", g, hw.relays, c.State().Loaded)
		}
		if hw.mute {
			t.Errorf("After %s: mute still held", g)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _, _, _ := newRig(t, testTable())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Errorf("Expected nil on cancel, got %v", err)
	}
}
