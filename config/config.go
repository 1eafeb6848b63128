package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"loopswitch/switcher"
)

// Backend identifies which hardware drives the switcher
type Backend string

const (
	BackendSim   Backend = "sim"   // terminal simulator
	BackendRPIO  Backend = "rpio"  // Raspberry Pi memory-mapped GPIO
	BackendGPIOD Backend = "gpiod" // Linux GPIO character device
	BackendMIDI  Backend = "midi"  // MIDI pad controller as footswitch board
)

// TimingConfig holds every control loop delay in milliseconds
type TimingConfig struct {
	ShortPressMs int `json:"shortPressMs"`
	LongPressMs  int `json:"longPressMs"`
	DebounceMs   int `json:"debounceMs"`
	PreMuteMs    int `json:"preMuteMs"`
	PostMuteMs   int `json:"postMuteMs"`
	BlinkOnMs    int `json:"blinkOnMs"`
	BlinkOffMs   int `json:"blinkOffMs"`
	BlinkTimes   int `json:"blinkTimes"`
	PollMs       int `json:"pollMs"`
}

// PinConfig maps switcher lines to BCM pin numbers (rpio) or line offsets (gpiod)
type PinConfig struct {
	Buttons   [8]int `json:"buttons"`
	Relays    [8]int `json:"relays"`
	Mute      int    `json:"mute"`
	PatchLEDs [8]int `json:"patchLeds"`
	BankLEDs  [3]int `json:"bankLeds"`
}

// GPIODConfig selects the character device chip
type GPIODConfig struct {
	Chip string `json:"chip"`
}

// MIDIConfig identifies the footswitch controller ports
type MIDIConfig struct {
	InPort   string `json:"inPort"`
	OutPort  string `json:"outPort,omitempty"` // defaults to InPort
	BaseNote uint8  `json:"baseNote"`          // note of footswitch 0
}

// UIConfig stores simulator preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file, built-in if empty
}

// Config is the main configuration structure
type Config struct {
	Backend   Backend      `json:"backend"`
	StorePath string       `json:"storePath,omitempty"`
	Timing    TimingConfig `json:"timing"`
	Pins      PinConfig    `json:"pins"`
	GPIOD     GPIODConfig  `json:"gpiod"`
	MIDI      MIDIConfig   `json:"midi"`
	UI        UIConfig     `json:"ui,omitempty"`
	Debug     bool         `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	t := switcher.DefaultTiming()
	return &Config{
		Backend: BackendSim,
		Timing: TimingConfig{
			ShortPressMs: int(t.ShortPress / time.Millisecond),
			LongPressMs:  int(t.LongPress / time.Millisecond),
			DebounceMs:   int(t.Debounce / time.Millisecond),
			PreMuteMs:    int(t.PreMute / time.Millisecond),
			PostMuteMs:   int(t.PostMute / time.Millisecond),
			BlinkOnMs:    int(t.BlinkOn / time.Millisecond),
			BlinkOffMs:   int(t.BlinkOff / time.Millisecond),
			BlinkTimes:   t.BlinkTimes,
			PollMs:       int(t.Poll / time.Millisecond),
		},
		Pins: PinConfig{
			Buttons:   [8]int{4, 17, 27, 22, 5, 6, 13, 26},
			Relays:    [8]int{14, 15, 18, 23, 24, 25, 8, 7},
			Mute:      12,
			PatchLEDs: [8]int{2, 3, 10, 9, 11, 0, 1, 19},
			BankLEDs:  [3]int{16, 20, 21},
		},
		GPIOD: GPIODConfig{Chip: "gpiochip0"},
		MIDI: MIDIConfig{
			InPort:   "Launchpad X LPX MIDI",
			BaseNote: 11,
		},
	}
}

// Durations converts the millisecond settings for the control loop
func (t TimingConfig) Durations() switcher.Timing {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return switcher.Timing{
		ShortPress: ms(t.ShortPressMs),
		LongPress:  ms(t.LongPressMs),
		Debounce:   ms(t.DebounceMs),
		PreMute:    ms(t.PreMuteMs),
		PostMute:   ms(t.PostMuteMs),
		BlinkOn:    ms(t.BlinkOnMs),
		BlinkOff:   ms(t.BlinkOffMs),
		BlinkTimes: t.BlinkTimes,
		Poll:       ms(t.PollMs),
	}
}

// Validate rejects settings the control loop cannot run with
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendRPIO, BackendGPIOD, BackendMIDI:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	t := c.Timing
	for name, v := range map[string]int{
		"shortPressMs": t.ShortPressMs,
		"longPressMs":  t.LongPressMs,
		"debounceMs":   t.DebounceMs,
		"preMuteMs":    t.PreMuteMs,
		"postMuteMs":   t.PostMuteMs,
		"blinkOnMs":    t.BlinkOnMs,
		"blinkOffMs":   t.BlinkOffMs,
		"blinkTimes":   t.BlinkTimes,
		"pollMs":       t.PollMs,
	} {
		if v < 0 {
			return fmt.Errorf("timing %s must not be negative, got %d", name, v)
		}
	}
	if t.ShortPressMs == 0 {
		return fmt.Errorf("timing shortPressMs must be positive")
	}
	if t.LongPressMs <= t.ShortPressMs {
		return fmt.Errorf("timing longPressMs (%d) must exceed shortPressMs (%d)", t.LongPressMs, t.ShortPressMs)
	}

	if c.Backend == BackendMIDI {
		if c.MIDI.InPort == "" {
			return fmt.Errorf("midi backend needs midi.inPort")
		}
		if int(c.MIDI.BaseNote)+switcher.NumButtons > 128 {
			return fmt.Errorf("midi.baseNote %d leaves no room for 8 footswitches", c.MIDI.BaseNote)
		}
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "loopswitch"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path (ConfigPath if empty), or returns defaults
// if the file does not exist
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Missing fields keep their defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path (ConfigPath if empty)
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
