package sequencer

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"tracklab/debug"
)

// DefaultAutosaveDelay is how long edits settle before they are written
const DefaultAutosaveDelay = 500 * time.Millisecond

// Autosaver coalesces bursts of edits into a single save
type Autosaver struct {
	save      func() error
	debounced func(f func())

	mu      sync.Mutex
	pending bool
}

// NewAutosaver calls save once edits have been quiet for after
func NewAutosaver(after time.Duration, save func() error) *Autosaver {
	if after <= 0 {
		after = DefaultAutosaveDelay
	}
	return &Autosaver{
		save:      save,
		debounced: debounce.New(after),
	}
}

// Trigger schedules a save, resetting the quiet period
func (as *Autosaver) Trigger() {
	as.mu.Lock()
	as.pending = true
	as.mu.Unlock()
	as.debounced(as.run)
}

// Flush saves now if a save is pending
func (as *Autosaver) Flush() error {
	as.mu.Lock()
	pending := as.pending
	as.pending = false
	as.mu.Unlock()
	if !pending {
		return nil
	}
	return as.save()
}

func (as *Autosaver) run() {
	if err := as.Flush(); err != nil {
		debug.Log("autosave", "save failed: %v", err)
	}
}
