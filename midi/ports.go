package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"tracklab/debug"
)

// ErrPortNotFound is returned when no port matches the requested name
var ErrPortNotFound = errors.New("midi port not found")

// scanTimeout bounds port enumeration; CoreMIDI can hang
const scanTimeout = 3 * time.Second

type portsResult struct {
	in  []drivers.In
	out []drivers.Out
}

func scanPorts() (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{in: gomidi.GetInPorts(), out: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r, nil
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return portsResult{}, errors.New("midi port scan timed out")
	}
}

// OutPorts lists output port names
func OutPorts() ([]string, error) {
	r, err := scanPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(r.out))
	for i, p := range r.out {
		names[i] = p.String()
	}
	return names, nil
}

// InPorts lists input port names
func InPorts() ([]string, error) {
	r, err := scanPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(r.in))
	for i, p := range r.in {
		names[i] = p.String()
	}
	return names, nil
}

// matchPort reports whether a port name matches a configured name. An
// exact match wins; otherwise a case-insensitive substring is accepted.
func matchPort(portName, want string) bool {
	if want == "" {
		return false
	}
	return portName == want || strings.Contains(strings.ToLower(portName), strings.ToLower(want))
}

// Outputs lazily opens and caches senders by port name
type Outputs struct {
	mu      sync.RWMutex
	senders map[string]func(gomidi.Message) error
}

// NewOutputs creates an empty sender cache
func NewOutputs() *Outputs {
	return &Outputs{senders: make(map[string]func(gomidi.Message) error)}
}

// Sender returns a sender for portName, opening the port on first use
func (o *Outputs) Sender(portName string) (func(gomidi.Message) error, error) {
	o.mu.RLock()
	if sender, ok := o.senders[portName]; ok {
		o.mu.RUnlock()
		return sender, nil
	}
	o.mu.RUnlock()

	o.mu.Lock()
	defer o.mu.Unlock()

	// Double-check after acquiring write lock
	if sender, ok := o.senders[portName]; ok {
		return sender, nil
	}

	r, err := scanPorts()
	if err != nil {
		return nil, err
	}
	for _, port := range r.out {
		if !matchPort(port.String(), portName) {
			continue
		}
		sender, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", port.String(), err)
		}
		debug.Log("midi", "opened output %s", port.String())
		o.senders[portName] = sender
		return sender, nil
	}
	return nil, fmt.Errorf("%s: %w", portName, ErrPortNotFound)
}

// Close releases the driver
func (o *Outputs) Close() {
	o.mu.Lock()
	o.senders = make(map[string]func(gomidi.Message) error)
	o.mu.Unlock()
	gomidi.CloseDriver()
}
