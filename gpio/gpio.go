// Package gpio drives the switcher from single-board-computer GPIO lines.
// Buttons are wired to ground with pull-ups, so a pressed button reads low
// and the raw line levels are the switcher's active-low mask as-is.
package gpio

import "loopswitch/switcher"

// levels expands v into n line values, bit i to element i
func levels(v uint8, n int) []int {
	out := make([]int, n)
	for i := range out {
		if v&(1<<uint(i)) != 0 {
			out[i] = 1
		}
	}
	return out
}

// maskOf packs button line levels into a raw mask
func maskOf(vals []int) switcher.RawMask {
	var m switcher.RawMask
	for i, v := range vals {
		if i >= switcher.NumButtons {
			break
		}
		if v != 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}
