package switcher

import (
	"context"
	"fmt"

	"loopswitch/debug"
)

// pairDescriptor binds a footswitch pair to its chord action
type pairDescriptor struct {
	low, high   Button
	name        string
	onChordLong func(c *Controller)
}

var pairs = [NumPairs]pairDescriptor{
	{low: 0, high: 1, name: "save", onChordLong: (*Controller).save},
	{low: 2, high: 3, name: "bank down", onChordLong: (*Controller).bankDown},
	{low: 4, high: 5, name: "bank up", onChordLong: (*Controller).bankUp},
	{low: 6, high: 7, name: "reset", onChordLong: (*Controller).reset},
}

// Controller is the switcher state machine. It owns the session state and
// the in-memory patch table and is driven from a single goroutine.
type Controller struct {
	hw         Hardware
	clock      Clock
	timing     Timing
	classifier *Classifier
	relays     *RelaySequencer
	indicator  IndicatorDriver
	store      *PatchStore

	table PatchTable
	state SessionState
}

// New wires a controller to its hardware and byte store. Call Boot before Run.
func New(hw Hardware, nv NVStore, clock Clock, timing Timing) *Controller {
	indicator := NewLEDIndicator(hw, clock)
	return &Controller{
		hw:         hw,
		clock:      clock,
		timing:     timing,
		classifier: NewClassifier(hw, clock, timing),
		relays:     NewRelaySequencer(hw, clock, timing),
		indicator:  indicator,
		store:      NewPatchStore(nv, indicator, timing),
	}
}

// Boot clears every output, loads the patch table and engages bank 0 patch 0
func (c *Controller) Boot() error {
	if err := c.hw.WriteRelays(0); err != nil {
		return fmt.Errorf("clear relays: %w", err)
	}
	if err := c.hw.SetMute(false); err != nil {
		return fmt.Errorf("clear mute: %w", err)
	}
	if err := c.hw.SetPatchLEDs(0); err != nil {
		return fmt.Errorf("clear patch leds: %w", err)
	}
	if err := c.hw.SetBankLEDs(0); err != nil {
		return fmt.Errorf("clear bank leds: %w", err)
	}

	table, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("load patches: %w", err)
	}
	c.table = table
	c.state = SessionState{Loaded: table[0][0]}

	c.indicator.SetPatchIndicator(c.state.Patch)
	c.indicator.SetBankIndicator(c.state.Bank)
	c.apply()
	debug.Log("boot", "bank 0 patch 0 loaded %s", c.state.Loaded)
	return nil
}

// State returns the live session
func (c *Controller) State() SessionState {
	return c.state
}

// Table returns a copy of the in-memory patch table
func (c *Controller) Table() PatchTable {
	return c.table
}

// Run polls until ctx is cancelled. Cancellation is only observed between
// poll cycles, never inside a gesture or a relay bracket.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		c.Poll()
	}
}

// Poll runs one poll cycle and reports whether a gesture was handled
func (c *Controller) Poll() bool {
	m := c.hw.Sample()
	if m == Idle {
		c.clock.Sleep(c.timing.Poll)
		return false
	}
	if _, ok := Recognize(m); !ok {
		debug.LogEvery(1000, "input", "ignored mask %s", m)
		c.clock.Sleep(c.timing.Poll)
		return false
	}

	g, settle := c.classifier.Classify(m)
	if g.Kind != GestureNone {
		c.Handle(g)
	}
	if settle {
		c.clock.Sleep(c.timing.Debounce)
	}
	return g.Kind != GestureNone
}

// Handle applies one gesture. The relay bracket, if any, has completed when
// Handle returns.
func (c *Controller) Handle(g Gesture) {
	debug.Log("gesture", "%s at bank %d patch %d", g, c.state.Bank, c.state.Patch)
	switch g.Kind {
	case PressShort:
		if g.Button < 0 || g.Button >= NumButtons {
			return
		}
		c.selectPatch(PatchIndex(g.Button))
	case PressLong:
		if g.Button < 0 || g.Button >= NumButtons {
			return
		}
		c.state.Loaded = c.state.Loaded.Toggle(g.Button)
		c.apply()
	case ChordLong:
		if g.Pair < 0 || g.Pair >= NumPairs {
			return
		}
		d := pairs[g.Pair]
		debug.Log("gesture", "chord %d+%d: %s", d.low, d.high, d.name)
		d.onChordLong(c)
	}
}

func (c *Controller) selectPatch(p PatchIndex) {
	c.state.Patch = p
	c.state.Loaded = c.table[c.state.Bank][p]
	c.apply()
	c.indicator.SetPatchIndicator(p)
}

func (c *Controller) save() {
	b, p := c.state.Bank, c.state.Patch
	c.table[b][p] = c.state.Loaded
	if err := c.store.Save(b, p, c.state.Loaded); err != nil {
		debug.Log("store", "%v", err)
	}
}

func (c *Controller) bankDown() {
	if c.state.Bank <= 0 {
		return
	}
	c.state.Bank--
	c.indicator.SetBankIndicator(c.state.Bank)
	debug.Log("bank", "down to %d", c.state.Bank)
}

func (c *Controller) bankUp() {
	if c.state.Bank >= NumBanks-1 {
		return
	}
	c.state.Bank++
	c.indicator.SetBankIndicator(c.state.Bank)
	debug.Log("bank", "up to %d", c.state.Bank)
}

func (c *Controller) reset() {
	c.state.Loaded = 0
	c.apply()
}

func (c *Controller) apply() {
	if err := c.relays.Apply(c.state.Loaded); err != nil {
		debug.Log("relay", "%v", err)
	}
}
