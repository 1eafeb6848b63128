package main

import (
	"fmt"
	"io"
	"strings"

	"loopswitch/switcher"
)

// dumpTable prints every stored patch as its loop mask, engaged loop 1 leftmost
func dumpTable(w io.Writer, nv switcher.NVStore) error {
	table, err := switcher.NewPatchStore(nv, nil, switcher.DefaultTiming()).Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-6s", "")
	for p := 1; p <= switcher.NumPatches; p++ {
		fmt.Fprintf(w, " patch%d  ", p)
	}
	fmt.Fprintln(w)

	for b := range table {
		fmt.Fprintf(w, "bank%d ", b+1)
		for _, m := range table[b] {
			fmt.Fprintf(w, " %s", loops(m))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// loops renders a mask as "1-3-----" style, one column per loop
func loops(m switcher.LoopMask) string {
	var sb strings.Builder
	for i := 0; i < switcher.NumButtons; i++ {
		if m.Engaged(i) {
			sb.WriteByte(byte('1' + i))
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String() + " "
}
