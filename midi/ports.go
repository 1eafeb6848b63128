package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrNoPort is returned when no port matches the configured name
var ErrNoPort = errors.New("midi: no matching port")

// scanTimeout bounds port enumeration (CoreMIDI can hang)
const scanTimeout = 3 * time.Second

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// scan lists ports without blocking forever on a hung driver
func scan() (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r, nil
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return portsResult{}, fmt.Errorf("midi: port scan timed out after %v", scanTimeout)
	}
}

// PortNames returns the names of every input and output port
func PortNames() (ins, outs []string, err error) {
	r, err := scan()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range r.inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range r.outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// matches reports whether want names portName, ignoring case
func matches(portName, want string) bool {
	a, b := strings.ToLower(portName), strings.ToLower(want)
	return a == b || strings.Contains(a, b)
}

func findIn(ports []drivers.In, want string) (drivers.In, error) {
	for _, p := range ports {
		if strings.EqualFold(p.String(), want) {
			return p, nil
		}
	}
	for _, p := range ports {
		if matches(p.String(), want) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("input %q: %w", want, ErrNoPort)
}

func findOut(ports []drivers.Out, want string) (drivers.Out, error) {
	for _, p := range ports {
		if strings.EqualFold(p.String(), want) {
			return p, nil
		}
	}
	for _, p := range ports {
		if matches(p.String(), want) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", want, ErrNoPort)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad")
}
