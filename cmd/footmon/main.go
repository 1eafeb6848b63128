package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"loopswitch/config"
	"loopswitch/midi"
	"loopswitch/switcher"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		watch()
	case "leds":
		testLEDs()
	case "poll":
		pollPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Footswitch board tools (ports from ~/.config/loopswitch/config.json)")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  watch   - Print footswitch masks and recognized gestures")
	fmt.Println("  leds    - Walk the patch, bank, relay and mute LEDs")
	fmt.Println("  poll    - Poll for port changes")
}

func openBoard() *midi.Board {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	b, err := midi.Open(cfg.MIDI.InPort, cfg.MIDI.OutPort, cfg.MIDI.BaseNote)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using %s (base note %d)\n", b.ID(), cfg.MIDI.BaseNote)
	return b
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.PortNames()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func watch() {
	b := openBoard()
	defer b.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	fmt.Println("Press footswitches. Ctrl+C to exit.")

	for {
		select {
		case ev := <-b.Events():
			state := "up"
			if ev.Down {
				state = "down"
			}
			m := b.Sample()
			desc := "idle"
			if m != switcher.Idle {
				desc = "unrecognized"
				if c, ok := switcher.Recognize(m); ok {
					if c.Chord {
						desc = fmt.Sprintf("chord %d+%d", c.Pair.Low()+1, c.Pair.High()+1)
					} else {
						desc = fmt.Sprintf("switch %d", c.Button+1)
					}
				}
			}
			fmt.Printf("[%s] switch %d %-4s vel %3d  mask %s  %s\n",
				time.Now().Format("15:04:05.000"), ev.Button+1, state, ev.Velocity, m, desc)
		case <-sig:
			fmt.Println()
			return
		}
	}
}

func testLEDs() {
	b := openBoard()
	defer b.Close()

	step := func(label string, fn func() error) {
		fmt.Println(label)
		if err := fn(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		time.Sleep(250 * time.Millisecond)
	}

	for p := switcher.PatchIndex(0); p < switcher.NumPatches; p++ {
		step(fmt.Sprintf("patch %d", p+1), func() error { return b.SetPatchLEDs(switcher.PatchLines(p)) })
	}
	for bank := switcher.Bank(0); bank < switcher.NumBanks; bank++ {
		step(fmt.Sprintf("bank %d", bank+1), func() error { return b.SetBankLEDs(switcher.BankLines(bank)) })
	}
	var m switcher.LoopMask
	for i := switcher.Button(0); i < switcher.NumButtons; i++ {
		m = m.Toggle(i)
		step(fmt.Sprintf("loops %s", m), func() error { return b.WriteRelays(m) })
	}
	step("mute on", func() error { return b.SetMute(true) })
	step("mute off", func() error { return b.SetMute(false) })

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

func pollPorts() {
	fmt.Println("Polling for port changes every 2 seconds...")
	fmt.Println("Connect/disconnect the board to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins, outs, err := midi.PortNames()
		if err != nil {
			fmt.Printf("  %v\n", err)
			time.Sleep(2 * time.Second)
			continue
		}

		currentIn := strings.Join(ins, ",")
		currentOut := strings.Join(outs, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Port change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", ins)
			fmt.Printf("  Outputs: %v\n", outs)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
