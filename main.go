package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"loopswitch/config"
	"loopswitch/debug"
	"loopswitch/gpio"
	"loopswitch/midi"
	"loopswitch/nvram"
	"loopswitch/panel"
	"loopswitch/switcher"
	"loopswitch/theme"
	"loopswitch/tui"
)

type hardware interface {
	switcher.Hardware
	io.Closer
}

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/loopswitch/config.json)")
	backend := flag.String("backend", "", "hardware backend: sim, rpio, gpiod or midi (overrides config)")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/loopswitch/debug.log")
	dump := flag.Bool("dump", false, "print the stored patch table and exit")
	flag.Parse()

	if err := run(*configPath, *backend, *debugLog, *dump); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, backend string, debugLog, dump bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Backend = config.Backend(backend)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if debugLog || cfg.Debug {
		path, err := debug.DefaultPath()
		if err != nil {
			return err
		}
		if err := debug.Enable(path); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	storePath := cfg.StorePath
	if storePath == "" {
		if storePath, err = nvram.DefaultPath(); err != nil {
			return err
		}
	}
	nv, err := nvram.OpenFile(storePath, switcher.NumSlots)
	if err != nil {
		return err
	}
	defer nv.Close()

	if dump {
		return dumpTable(os.Stdout, nv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timing := cfg.Timing.Durations()
	if cfg.Backend == config.BackendSim {
		return runSim(ctx, cfg, nv, timing)
	}

	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	c := switcher.New(hw, nv, switcher.SystemClock{}, timing)
	if err := c.Boot(); err != nil {
		return err
	}
	fmt.Printf("loopswitch: %s backend, store %s\n", cfg.Backend, storePath)
	return c.Run(ctx)
}

func openHardware(cfg *config.Config) (hardware, error) {
	switch cfg.Backend {
	case config.BackendRPIO:
		return gpio.OpenRPIO(cfg.Pins)
	case config.BackendGPIOD:
		return gpio.OpenChardev(cfg.GPIOD.Chip, cfg.Pins)
	case config.BackendMIDI:
		return midi.Open(cfg.MIDI.InPort, cfg.MIDI.OutPort, cfg.MIDI.BaseNote)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// runSim drives a virtual panel from the terminal
func runSim(ctx context.Context, cfg *config.Config, nv switcher.NVStore, timing switcher.Timing) error {
	palette := theme.DefaultPalette()
	if cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			return err
		}
		palette = p
	}
	th := theme.New(palette)

	p := panel.New()
	c := switcher.New(p, nv, switcher.SystemClock{}, timing)
	if err := c.Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	prog := tea.NewProgram(tui.NewModel(p, th), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		prog.Quit()
	}()

	_, err := prog.Run()

	// let an in-flight gesture finish before the store closes
	cancel()
	<-done
	return err
}
