package sequencer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"tracklab/clock"
	"tracklab/debug"
)

// Recorder captures live triggers into a pending pattern, quantized to the
// step clock, and commits it to the library on Stop.
type Recorder struct {
	src   clock.Source
	gate  Gate
	asker Asker
	lib   *Library

	mu         sync.Mutex
	instrument string
	clk        *clock.Clock
	pending    Pattern
	recording  bool
	started    time.Time
	onStep     func(step int)
}

// NewRecorder creates an idle recorder committing into lib
func NewRecorder(src clock.Source, gate Gate, asker Asker, lib *Library) *Recorder {
	return &Recorder{
		src:        src,
		gate:       gate,
		asker:      asker,
		lib:        lib,
		instrument: DefaultInstrument,
	}
}

// SetInstrument selects the instrument kind checked against the gate
func (r *Recorder) SetInstrument(kind string) {
	r.mu.Lock()
	r.instrument = kind
	r.mu.Unlock()
}

// OnStep registers a callback run on every recording step (UI redraw)
func (r *Recorder) OnStep(fn func(step int)) {
	r.mu.Lock()
	r.onStep = fn
	r.mu.Unlock()
}

// Start begins a fresh take at bpm. Starting while already recording is a
// no-op.
func (r *Recorder) Start(bpm int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gate != nil && !r.gate.IsInstrumentEquipped(r.instrument) {
		return fmt.Errorf("record %s: %w", r.instrument, ErrInstrumentNotEquipped)
	}
	if r.recording {
		return nil
	}

	r.pending = NewPattern(r.instrument, bpm)
	r.started = time.Now()
	r.recording = true
	r.clk = clock.New(r.src, r.pending.BPM, r.pending.LengthSteps, clock.Loop, r.tick)
	r.clk.Start(0)

	debug.Log("record", "start %s bpm=%d", r.pending.ID, r.pending.BPM)
	return nil
}

func (r *Recorder) tick(step int) {
	r.mu.Lock()
	fn := r.onStep
	recording := r.recording
	r.mu.Unlock()

	if recording && fn != nil {
		fn(step)
	}
}

// Trigger appends an event at the current step. Returns false when not
// recording.
func (r *Recorder) Trigger(row BankRow, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || r.clk == nil {
		return false
	}

	r.pending.Events = append(r.pending.Events, Event{
		Step:        r.clk.Current(),
		Row:         row,
		Code:        code,
		TimestampMs: time.Since(r.started).Milliseconds(),
	})
	return true
}

// Stop ends the take and asks for a name. A cancelled or blank name
// discards the take and returns nil.
func (r *Recorder) Stop(ctx context.Context) (*Pattern, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, nil
	}
	r.clk.Stop()
	r.recording = false
	take := r.pending.Clone()
	r.mu.Unlock()

	if r.asker == nil {
		debug.Log("record", "no prompt available, discarding %s", take.ID)
		return nil, nil
	}

	def := fmt.Sprintf("Riff_%d", rand.IntN(1000))
	name, ok := r.asker.AskString(ctx, "Save pattern as:", def)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		debug.Log("record", "discarded %s (%d events)", take.ID, len(take.Events))
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	take.Name = name
	take.SortEvents()
	r.lib.Append(take)

	debug.Log("record", "committed %q (%d events)", take.Name, len(take.Events))
	return &take, nil
}

// Abort stops recording without committing
func (r *Recorder) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clk != nil {
		r.clk.Stop()
	}
	r.recording = false
}

// Clear empties the pending take without stopping
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending.Events = []Event{}
}

// Recording reports whether a take is in progress
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// CurrentStep returns the quantized step new triggers land on
func (r *Recorder) CurrentStep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clk == nil || !r.recording {
		return 0
	}
	return r.clk.Current()
}

// Pending returns a copy of the current (or last) take
func (r *Recorder) Pending() Pattern {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending.Clone()
}
