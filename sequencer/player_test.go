package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tracklab/clock"
	"tracklab/sound"
)

func TestPlayerTriggersEventsAtTheirSteps(t *testing.T) {
	src := clock.NewManual()
	sink := &sound.Recorder{}
	p := testPattern("A", 4,
		Event{Step: 0, Row: RowChord, Code: "chord_C"},
		Event{Step: 2, Row: RowNote1, Code: "note_E"},
		Event{Step: 2, Row: RowNote1, Code: ""},
		Event{Step: 9, Row: RowNote1, Code: "note_B"},
	)

	c := NewPlayer(src).Play(p, sink)
	assert.True(t, c.Running())

	src.Advance(step)
	assert.Equal(t, []string{"chord_C"}, sink.Codes())

	src.Advance(2 * step)
	assert.Equal(t, []string{"chord_C", "note_E", FallbackCode}, sink.Codes())

	src.Advance(step)
	assert.False(t, c.Running(), "one-shot stops after the last step")

	src.Advance(20 * step)
	assert.Len(t, sink.Codes(), 3, "events past the pattern length never play")
}

func TestPlayerUsesPatternTempo(t *testing.T) {
	src := clock.NewManual()
	sink := &sound.Recorder{}
	p := testPattern("slow", 4, Event{Step: 0, Code: "chord_C"})
	p.BPM = 60

	NewPlayer(src).Play(p, sink)
	src.Advance(step)
	assert.Empty(t, sink.Codes())
	src.Advance(step)
	assert.Equal(t, []string{"chord_C"}, sink.Codes())
}

func TestPlayerSurvivesPanickingSink(t *testing.T) {
	src := clock.NewManual()
	var played []string
	sink := sound.SinkFunc(func(code string) {
		played = append(played, code)
		if code == "chord_C" {
			panic("audio device gone")
		}
	})
	p := testPattern("A", 4,
		Event{Step: 0, Code: "chord_C"},
		Event{Step: 1, Code: "chord_G"},
	)

	NewPlayer(src).Play(p, sink)
	assert.NotPanics(t, func() { src.Advance(4 * step) })
	assert.Equal(t, []string{"chord_C", "chord_G"}, played)
}
