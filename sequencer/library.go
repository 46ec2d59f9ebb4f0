package sequencer

import (
	"fmt"
	"sync"
)

// Library is the append-only list of committed patterns. Patterns are
// read-only once committed; they can only be deleted.
type Library struct {
	mu       sync.RWMutex
	patterns []Pattern
	onChange func()
}

// NewLibrary creates a library holding patterns
func NewLibrary(patterns ...Pattern) *Library {
	l := &Library{}
	for _, p := range patterns {
		l.patterns = append(l.patterns, p.Clone())
	}
	return l
}

// SetOnChange registers a callback run after every mutation
func (l *Library) SetOnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *Library) changed() {
	l.mu.RLock()
	fn := l.onChange
	l.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Append adds p and returns its index
func (l *Library) Append(p Pattern) int {
	l.mu.Lock()
	l.patterns = append(l.patterns, p.Clone())
	idx := len(l.patterns) - 1
	l.mu.Unlock()

	l.changed()
	return idx
}

// Get returns the pattern at index
func (l *Library) Get(index int) (Pattern, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.patterns) {
		return Pattern{}, fmt.Errorf("pattern %d: %w", index, ErrPatternNotFound)
	}
	return l.patterns[index].Clone(), nil
}

// Find looks a pattern up by id
func (l *Library) Find(id string) (Pattern, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.patterns {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Pattern{}, false
}

// Delete removes the pattern at index. Blocks that reference it stay on the
// timeline and are skipped at playback.
func (l *Library) Delete(index int) error {
	l.mu.Lock()
	if index < 0 || index >= len(l.patterns) {
		l.mu.Unlock()
		return fmt.Errorf("pattern %d: %w", index, ErrPatternNotFound)
	}
	l.patterns = append(l.patterns[:index], l.patterns[index+1:]...)
	l.mu.Unlock()

	l.changed()
	return nil
}

// List returns a copy of every pattern in order
func (l *Library) List() []Pattern {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Pattern, len(l.patterns))
	for i, p := range l.patterns {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of patterns
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.patterns)
}

// replace swaps the whole list, used when loading from the store
func (l *Library) replace(patterns []Pattern) {
	l.mu.Lock()
	l.patterns = make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		l.patterns = append(l.patterns, p.Clone())
	}
	l.mu.Unlock()
}
