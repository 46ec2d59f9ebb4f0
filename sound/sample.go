package sound

import (
	"path"
	"strings"
)

// Instrument maps sound codes to sample files inside AudioFolder
type Instrument struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	AudioFolder string            `json:"audioFolder"`
	Keymap      map[string]string `json:"keymap,omitempty"`
}

// DefaultInstrument is the starter guitar and its handful of samples
var DefaultInstrument = Instrument{
	ID:          "guitar",
	Name:        "Shitty Guitar",
	AudioFolder: "audio/shittyguitar/",
}

// Resolve returns the sample path for code. Codes missing from the keymap
// fall back to the samples that ship with the default guitar: chords by
// root letter, notes cycled over three single-note samples.
func (inst Instrument) Resolve(code string) (string, bool) {
	file := inst.Keymap[code]
	if file == "" {
		file = fallbackSample(code)
	}
	if file == "" {
		return "", false
	}
	folder := inst.AudioFolder
	if folder == "" {
		folder = DefaultInstrument.AudioFolder
	}
	return path.Join(folder, file), true
}

func fallbackSample(code string) string {
	switch {
	case strings.HasPrefix(code, "chord_"):
		letter := strings.ToUpper(strings.TrimPrefix(code, "chord_"))
		switch {
		case strings.HasPrefix(letter, "A"):
			return "chord_A.mp3"
		case strings.HasPrefix(letter, "D"):
			return "chord_D.mp3"
		case strings.HasPrefix(letter, "E"):
			return "chord_E.mp3"
		default:
			return "chord_G.mp3"
		}
	case strings.HasPrefix(code, "note_"):
		sum := 0
		for _, ch := range code {
			sum += int(ch)
		}
		return "note_" + string(rune('1'+sum%3)) + ".mp3"
	}
	return ""
}

// SampleSink resolves codes through an instrument and hands the sample path
// to Play. Unresolvable codes are dropped.
type SampleSink struct {
	Instrument Instrument
	Play       func(path string)
}

func (s SampleSink) Trigger(code string) {
	p, ok := s.Instrument.Resolve(code)
	if !ok || s.Play == nil {
		return
	}
	s.Play(p)
}
