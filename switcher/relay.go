package switcher

import (
	"fmt"

	"loopswitch/debug"
)

// RelaySequencer writes loop masks to the relays inside a mute bracket so
// contact bounce is never heard.
type RelaySequencer struct {
	port   RelayPort
	clock  Clock
	timing Timing
}

func NewRelaySequencer(port RelayPort, clock Clock, timing Timing) *RelaySequencer {
	return &RelaySequencer{port: port, clock: clock, timing: timing}
}

// Apply runs the whole bracket before returning. A failing line is logged
// and the bracket continues, so the mute line is always released.
func (r *RelaySequencer) Apply(m LoopMask) error {
	var errs []error
	if err := r.port.SetMute(true); err != nil {
		errs = append(errs, fmt.Errorf("mute on: %w", err))
	}
	r.clock.Sleep(r.timing.PreMute)
	if err := r.port.WriteRelays(m); err != nil {
		errs = append(errs, fmt.Errorf("write relays %s: %w", m, err))
	}
	r.clock.Sleep(r.timing.PostMute)
	if err := r.port.SetMute(false); err != nil {
		errs = append(errs, fmt.Errorf("mute off: %w", err))
	}

	debug.Log("relay", "applied %s", m)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
