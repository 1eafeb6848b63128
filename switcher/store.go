package switcher

import (
	"fmt"

	"loopswitch/debug"
)

// PatchStore persists the patch table, one byte per slot
type PatchStore struct {
	nv        NVStore
	indicator IndicatorDriver
	timing    Timing
}

func NewPatchStore(nv NVStore, indicator IndicatorDriver, timing Timing) *PatchStore {
	return &PatchStore{nv: nv, indicator: indicator, timing: timing}
}

// Load reads the full table
func (s *PatchStore) Load() (PatchTable, error) {
	var t PatchTable
	if s.nv.Size() < NumSlots {
		return t, fmt.Errorf("store holds %d bytes, need %d", s.nv.Size(), NumSlots)
	}
	for b := Bank(0); b < NumBanks; b++ {
		for p := PatchIndex(0); p < NumPatches; p++ {
			v, err := s.nv.Byte(Address(b, p))
			if err != nil {
				return t, fmt.Errorf("read bank %d patch %d: %w", b, p, err)
			}
			t[b][p] = LoopMask(v)
		}
	}
	return t, nil
}

// Save writes one slot and then blinks its patch indicator as confirmation.
// Nothing blinks if the write fails.
func (s *PatchStore) Save(b Bank, p PatchIndex, m LoopMask) error {
	if err := s.nv.SetByte(Address(b, p), byte(m)); err != nil {
		return fmt.Errorf("write bank %d patch %d: %w", b, p, err)
	}
	debug.Log("store", "saved bank %d patch %d = %s", b, p, m)
	s.indicator.BlinkPatch(p, s.timing.BlinkTimes, s.timing.BlinkOn, s.timing.BlinkOff)
	return nil
}
