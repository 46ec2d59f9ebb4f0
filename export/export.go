// Package export renders patterns and arrangements as Standard MIDI Files.
package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"tracklab/clock"
	"tracklab/midi"
	"tracklab/scale"
	"tracklab/sequencer"
)

// TicksPerQuarter is the file resolution
const TicksPerQuarter = 960

const ticksPerStep = TicksPerQuarter / clock.StepsPerBeat

// Options controls voicing
type Options struct {
	Banks    *scale.Banks // chord qualities; nil voices every chord major
	Octave   int
	Velocity uint8
}

func (o Options) velocity() uint8 {
	if o.Velocity == 0 || o.Velocity > 127 {
		return 100
	}
	return o.Velocity
}

type timedNote struct {
	tick uint32
	on   bool
	note uint8
}

type trackBuilder struct {
	opts  Options
	notes []timedNote
}

// add places every note of code at tick, one step long
func (tb *trackBuilder) add(tick uint32, code string) {
	if code == "" {
		code = sequencer.FallbackCode
	}
	notes, ok := midi.Voicing(code, tb.opts.Banks, tb.opts.Octave)
	if !ok {
		return
	}
	for _, n := range notes {
		tb.notes = append(tb.notes,
			timedNote{tick: tick, on: true, note: n},
			timedNote{tick: tick + ticksPerStep - 1, on: false, note: n},
		)
	}
}

func (tb *trackBuilder) build(name string, channel uint8, end uint32) smf.Track {
	sort.SliceStable(tb.notes, func(i, j int) bool {
		if tb.notes[i].tick != tb.notes[j].tick {
			return tb.notes[i].tick < tb.notes[j].tick
		}
		// note offs first so retriggers are not cut short
		return !tb.notes[i].on && tb.notes[j].on
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	var last uint32
	for _, n := range tb.notes {
		delta := n.tick - last
		last = n.tick
		if n.on {
			track.Add(delta, gomidi.NoteOn(channel, n.note, tb.opts.velocity()))
		} else {
			track.Add(delta, gomidi.NoteOff(channel, n.note))
		}
	}
	if end < last {
		end = last
	}
	track.Close(end - last)
	return track
}

func newFile(bpm int) (*smf.SMF, error) {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(float64(bpm)))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return nil, fmt.Errorf("add tempo track: %w", err)
	}
	return sm, nil
}

// Pattern writes p as a single-track file at its own tempo
func Pattern(w io.Writer, p sequencer.Pattern, opts Options) error {
	sm, err := newFile(p.Tempo())
	if err != nil {
		return err
	}

	tb := &trackBuilder{opts: opts}
	for _, ev := range p.Events {
		if ev.Step < 0 || ev.Step >= p.Length() {
			continue
		}
		tb.add(uint32(ev.Step)*ticksPerStep, ev.Code)
	}
	if err := sm.Add(tb.build(p.Name, 0, uint32(p.Length())*ticksPerStep)); err != nil {
		return fmt.Errorf("add pattern track: %w", err)
	}

	_, err = sm.WriteTo(w)
	return err
}

// Arrangement writes one track per lane. Blocks start on the arrangement's
// step grid and play their pattern at the pattern's own tempo, so event
// offsets are converted through wall-clock time onto the tick grid. Blocks whose pattern is missing
// are skipped.
func Arrangement(w io.Writer, snap sequencer.Snapshot, patterns sequencer.PatternSource, opts Options) error {
	bpm := snap.BPM
	if bpm <= 0 {
		bpm = sequencer.DefaultBPM
	}
	length := snap.LengthSteps
	if length <= 0 {
		length = sequencer.DefaultTimelineSteps
	}

	sm, err := newFile(bpm)
	if err != nil {
		return err
	}

	quarter := time.Minute / time.Duration(bpm)
	toTicks := func(d time.Duration) uint32 {
		return uint32(d * TicksPerQuarter / quarter)
	}
	builders := make([]*trackBuilder, len(snap.Lanes))
	for i := range builders {
		builders[i] = &trackBuilder{opts: opts}
	}

	for _, b := range snap.Blocks {
		if b.Lane < 0 || b.Lane >= len(builders) {
			continue
		}
		p, ok := patterns.Find(b.PatternID)
		if !ok {
			continue
		}
		start := uint32(b.StartStep) * ticksPerStep
		patStep := clock.StepInterval(p.Tempo())
		for _, ev := range p.Events {
			if ev.Step < 0 || ev.Step >= p.Length() {
				continue
			}
			builders[b.Lane].add(start+toTicks(time.Duration(ev.Step)*patStep), ev.Code)
		}
	}

	end := uint32(length) * ticksPerStep
	for i, lane := range snap.Lanes {
		ch := uint8(i % 16)
		if err := sm.Add(builders[i].build(lane.Name, ch, end)); err != nil {
			return fmt.Errorf("add lane %s: %w", lane.Name, err)
		}
	}

	_, err = sm.WriteTo(w)
	return err
}

// ArrangementFile writes the arrangement to path
func ArrangementFile(path string, snap sequencer.Snapshot, patterns sequencer.PatternSource, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Arrangement(f, snap, patterns, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
