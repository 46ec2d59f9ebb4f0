package sequencer

import (
	"sort"
	"time"
)

const (
	DefaultPatternSteps = 32
	DefaultBPM          = 120
	DefaultInstrument   = "guitar"
)

// BankRow is the piano-roll row an event was recorded on
type BankRow string

const (
	RowChord      BankRow = "chord"
	RowNote1      BankRow = "note1"
	RowNote2      BankRow = "note2"
	RowNote3      BankRow = "note3"
	RowInstrument BankRow = "instrument"
)

// Rows lists every row in display order
var Rows = []BankRow{RowChord, RowNote1, RowNote2, RowNote3, RowInstrument}

// Event is one quantized trigger inside a pattern
type Event struct {
	Step        int     `json:"step"`
	Row         BankRow `json:"row"`
	Code        string  `json:"code"`
	TimestampMs int64   `json:"t"` // capture time, advisory only
}

// Pattern is a named, tempo-tagged sequence of quantized events
type Pattern struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	InstrumentID string    `json:"instrument"`
	BPM          int       `json:"bpm"`
	LengthSteps  int       `json:"length"`
	Events       []Event   `json:"events"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewPattern creates an empty untitled pattern
func NewPattern(instrument string, bpm int) Pattern {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	if instrument == "" {
		instrument = DefaultInstrument
	}
	return Pattern{
		ID:           newID("pat_"),
		Name:         "Untitled",
		InstrumentID: instrument,
		BPM:          bpm,
		LengthSteps:  DefaultPatternSteps,
		Events:       []Event{},
		CreatedAt:    time.Now(),
	}
}

// Clone returns a deep copy
func (p Pattern) Clone() Pattern {
	c := p
	c.Events = make([]Event, len(p.Events))
	copy(c.Events, p.Events)
	return c
}

// Length returns LengthSteps, falling back to the default
func (p Pattern) Length() int {
	if p.LengthSteps <= 0 {
		return DefaultPatternSteps
	}
	return p.LengthSteps
}

// Tempo returns BPM, falling back to the default
func (p Pattern) Tempo() int {
	if p.BPM <= 0 {
		return DefaultBPM
	}
	return p.BPM
}

// EventsByStep groups events by step. Events at the same step keep their
// recorded order.
func (p Pattern) EventsByStep() map[int][]Event {
	byStep := make(map[int][]Event)
	for _, ev := range p.Events {
		byStep[ev.Step] = append(byStep[ev.Step], ev)
	}
	return byStep
}

// SortEvents orders events by step, stable for events on the same step
func (p *Pattern) SortEvents() {
	sort.SliceStable(p.Events, func(i, j int) bool {
		return p.Events[i].Step < p.Events[j].Step
	})
}

// ContentMask reports which steps hold at least one event
func (p Pattern) ContentMask() []bool {
	mask := make([]bool, p.Length())
	for _, ev := range p.Events {
		if ev.Step >= 0 && ev.Step < len(mask) {
			mask[ev.Step] = true
		}
	}
	return mask
}
