// Package scale derives diatonic scales, triads and the two 12-slot input
// banks from a root pitch class.
package scale

import (
	"fmt"
	"strings"
)

// PitchClass is one of the 12 chromatic note names
type PitchClass string

const (
	C  PitchClass = "C"
	Cs PitchClass = "C#"
	D  PitchClass = "D"
	Ds PitchClass = "D#"
	E  PitchClass = "E"
	F  PitchClass = "F"
	Fs PitchClass = "F#"
	G  PitchClass = "G"
	Gs PitchClass = "G#"
	A  PitchClass = "A"
	As PitchClass = "A#"
	B  PitchClass = "B"
)

// Chromatic is the fixed chromatic order, starting at C
var Chromatic = [12]PitchClass{C, Cs, D, Ds, E, F, Fs, G, Gs, A, As, B}

// majorSteps are the whole/half intervals of the major scale
var majorSteps = [7]int{2, 2, 1, 2, 2, 2, 1}

// InvalidRootError is returned when a root is not one of the 12 pitch classes
type InvalidRootError struct {
	Root string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root pitch class %q", e.Root)
}

// Index returns the chromatic position of pc (0 = C), or -1
func (pc PitchClass) Index() int {
	for i, c := range Chromatic {
		if c == pc {
			return i
		}
	}
	return -1
}

// Valid reports whether pc is a known pitch class
func (pc PitchClass) Valid() bool {
	return pc.Index() >= 0
}

// Safe renders pc with the sharp replaced by "s" (C# -> Cs)
func (pc PitchClass) Safe() string {
	return strings.ReplaceAll(string(pc), "#", "s")
}

// ParsePitchClass accepts "C#" as well as the code spelling "Cs".
func ParsePitchClass(s string) (PitchClass, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return "", &InvalidRootError{Root: s}
	}
	norm := strings.ToUpper(s[:1]) + s[1:]
	if len(norm) == 2 && norm[1] == 's' {
		norm = norm[:1] + "#"
	}
	pc := PitchClass(norm)
	if !pc.Valid() {
		return "", &InvalidRootError{Root: s}
	}
	return pc, nil
}

// MajorScale returns the 7 degrees of the major scale on root.
func MajorScale(root PitchClass) ([]PitchClass, error) {
	start := root.Index()
	if start < 0 {
		return nil, &InvalidRootError{Root: string(root)}
	}

	degrees := make([]PitchClass, 0, len(majorSteps))
	pos := 0
	for i := 0; i < len(majorSteps); i++ {
		degrees = append(degrees, Chromatic[(start+pos)%12])
		pos += majorSteps[i]
	}
	return degrees, nil
}
