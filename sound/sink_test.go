package sound

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSwallowsPanics(t *testing.T) {
	s := Safe(SinkFunc(func(code string) { panic("no such sample") }))

	assert.NotPanics(t, func() { s.Trigger("chord_C") })
}

func TestSafeNil(t *testing.T) {
	assert.NotPanics(t, func() { Safe(nil).Trigger("note_C") })
}

func TestMultiIsolatesFailures(t *testing.T) {
	rec := &Recorder{}
	bad := SinkFunc(func(string) { panic("boom") })

	Multi(bad, rec, nil).Trigger("note_E")

	assert.Equal(t, []string{"note_E"}, rec.Codes())
}

func TestInstrumentResolve(t *testing.T) {
	tests := []struct {
		name string
		inst Instrument
		code string
		want string
		ok   bool
	}{
		{name: "chord fallback A", inst: DefaultInstrument, code: "chord_A", want: "audio/shittyguitar/chord_A.mp3", ok: true},
		{name: "chord fallback sharp", inst: DefaultInstrument, code: "chord_Ds", want: "audio/shittyguitar/chord_D.mp3", ok: true},
		{name: "chord fallback default", inst: DefaultInstrument, code: "chord_C", want: "audio/shittyguitar/chord_G.mp3", ok: true},
		{name: "note cycles", inst: DefaultInstrument, code: "note_C", want: "audio/shittyguitar/note_1.mp3", ok: true},
		{name: "keymap wins", inst: Instrument{AudioFolder: "kit", Keymap: map[string]string{"chord_C": "c.wav"}}, code: "chord_C", want: "kit/c.wav", ok: true},
		{name: "unknown code", inst: DefaultInstrument, code: "cowbell", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.inst.Resolve(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSampleSink(t *testing.T) {
	var played []string
	s := SampleSink{Instrument: DefaultInstrument, Play: func(p string) { played = append(played, p) }}

	s.Trigger("chord_E")
	s.Trigger("bogus")

	assert.Equal(t, []string{"audio/shittyguitar/chord_E.mp3"}, played)
}
