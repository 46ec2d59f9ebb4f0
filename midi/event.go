package midi

import (
	"strings"

	"tracklab/scale"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a note message produced from a sound code
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // 0-15
	Note     uint8
	Velocity uint8
}

// NoteNumber returns the MIDI note for pc in octave (C4 = 60)
func NoteNumber(pc scale.PitchClass, octave int) uint8 {
	n := 12*(octave+1) + pc.Index()
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

// Voicing returns the notes a sound code plays. Chord codes use the triad
// quality from banks when the chord belongs to the key, major otherwise.
func Voicing(code string, banks *scale.Banks, octave int) ([]uint8, bool) {
	switch {
	case strings.HasPrefix(code, "chord_"):
		pc, err := scale.ParsePitchClass(strings.TrimPrefix(code, "chord_"))
		if err != nil {
			return nil, false
		}
		triad := scale.Triad{Root: pc, Quality: scale.Major}
		if banks != nil {
			if t, ok := banks.TriadFor(code); ok {
				triad = t
			}
		}
		root := int(NoteNumber(pc, octave))
		var notes []uint8
		for _, iv := range triad.Intervals() {
			if n := root + iv; n <= 127 {
				notes = append(notes, uint8(n))
			}
		}
		return notes, true

	case strings.HasPrefix(code, "note_"):
		pc, err := scale.ParsePitchClass(strings.TrimPrefix(code, "note_"))
		if err != nil {
			return nil, false
		}
		// single notes sit an octave above the chords
		return []uint8{NoteNumber(pc, octave+1)}, true
	}
	return nil, false
}
