package midi

import (
	"context"
	"sync"
	"time"

	"tracklab/debug"
)

// DeviceEvent is emitted when a keyboard connects or disconnects
type DeviceEvent struct {
	Type DeviceEventType
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager watches for keyboards whose input port matches a name and
// merges their key presses into one stream
type DeviceManager struct {
	match string

	keyboards map[string]*Keyboard
	mu        sync.RWMutex
	events    chan DeviceEvent
	keys      chan string
	pollRate  time.Duration
}

// NewDeviceManager creates a manager for inputs matching name
func NewDeviceManager(name string) *DeviceManager {
	return &DeviceManager{
		match:     name,
		keyboards: make(map[string]*Keyboard),
		events:    make(chan DeviceEvent, 16),
		keys:      make(chan string, 64),
		pollRate:  time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Keys returns bank keys played on any connected keyboard
func (dm *DeviceManager) Keys() <-chan string {
	return dm.keys
}

// Connected returns the ids of connected keyboards
func (dm *DeviceManager) Connected() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	ids := make([]string, 0, len(dm.keyboards))
	for id := range dm.keyboards {
		ids = append(ids, id)
	}
	return ids
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	ports, err := scanPorts()
	if err != nil {
		debug.Log("midi", "scan: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, in := range ports.in {
		id := in.String()
		if !matchPort(id, dm.match) {
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.keyboards[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		kb, err := NewKeyboard(id, in)
		if err != nil {
			debug.Log("midi", "keyboard %s: %v", id, err)
			continue
		}
		dm.mu.Lock()
		dm.keyboards[id] = kb
		dm.mu.Unlock()
		go dm.forward(kb)

		debug.Log("midi", "keyboard connected: %s", id)
		dm.emit(DeviceEvent{Type: DeviceConnected, ID: id})
	}

	dm.mu.Lock()
	var gone []string
	for id := range dm.keyboards {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		dm.keyboards[id].Close()
		delete(dm.keyboards, id)
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Log("midi", "keyboard disconnected: %s", id)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) forward(kb *Keyboard) {
	for {
		select {
		case <-kb.Done():
			return
		case key := <-kb.Keys():
			select {
			case dm.keys <- key:
			default:
			}
		}
	}
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, kb := range dm.keyboards {
		kb.Close()
	}
	dm.keyboards = make(map[string]*Keyboard)
}
