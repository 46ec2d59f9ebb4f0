package sequencer

import (
	"context"
	"sync"
	"testing"
	"time"

	"tracklab/clock"
)

// step is one sixteenth at 120 bpm
const step = 125 * time.Millisecond

type scriptedAsker struct {
	mu sync.Mutex

	name          string
	nameOK        bool
	acceptDefault bool
	number        int
	numberOK      bool

	prompts  []string
	defaults []string
}

func (a *scriptedAsker) AskString(_ context.Context, prompt, def string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prompts = append(a.prompts, prompt)
	a.defaults = append(a.defaults, def)
	if a.acceptDefault {
		return def, true
	}
	return a.name, a.nameOK
}

func (a *scriptedAsker) AskNumber(_ context.Context, prompt string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prompts = append(a.prompts, prompt)
	return a.number, a.numberOK
}

func named(name string) *scriptedAsker {
	return &scriptedAsker{name: name, nameOK: true}
}

func pick(i int) *scriptedAsker {
	return &scriptedAsker{number: i, numberOK: true}
}

func testPattern(name string, length int, events ...Event) Pattern {
	p := NewPattern(DefaultInstrument, DefaultBPM)
	p.Name = name
	p.LengthSteps = length
	p.Events = events
	return p
}

func newTestArrangement(t *testing.T, patterns ...Pattern) (*Arrangement, *Library, *clock.Manual) {
	t.Helper()
	src := clock.NewManual()
	lib := NewLibrary(patterns...)
	return NewArrangement(src, lib, nil), lib, src
}
