package scale

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorScale(t *testing.T) {
	tests := []struct {
		name string
		root PitchClass
		want []PitchClass
	}{
		{name: "C major", root: C, want: []PitchClass{C, D, E, F, G, A, B}},
		{name: "G major", root: G, want: []PitchClass{G, A, B, C, D, E, Fs}},
		{name: "F# major", root: Fs, want: []PitchClass{Fs, Gs, As, B, Cs, Ds, F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MajorScale(tt.root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMajorScaleInvalidRoot(t *testing.T) {
	_, err := MajorScale("H")

	var rootErr *InvalidRootError
	require.True(t, errors.As(err, &rootErr))
	assert.Equal(t, "H", rootErr.Root)
}

func TestAllRootsProduceFullBanks(t *testing.T) {
	for _, root := range Chromatic {
		t.Run(string(root), func(t *testing.T) {
			degrees, err := MajorScale(root)
			require.NoError(t, err)
			require.Len(t, degrees, 7)

			seen := map[PitchClass]bool{}
			for _, d := range degrees {
				seen[d] = true
			}
			assert.Len(t, seen, 7, "degrees must be distinct")

			b, err := NewBanks(root)
			require.NoError(t, err)
			for i := 0; i < BankSize; i++ {
				assert.NotEmpty(t, b.Chords[i].Label)
				assert.NotEmpty(t, b.Chords[i].Code)
				assert.NotEmpty(t, b.Notes[i].Label)
				assert.NotEmpty(t, b.Notes[i].Code)
				assert.NotContains(t, b.Chords[i].Code, "#")
				assert.NotContains(t, b.Notes[i].Code, "#")
			}
		})
	}
}

func TestBanksCycleDegrees(t *testing.T) {
	b, err := NewBanks(C)
	require.NoError(t, err)

	assert.Equal(t, Entry{Label: "Cmaj", Code: "chord_C"}, b.Chords[0])
	assert.Equal(t, Entry{Label: "Dmin", Code: "chord_D"}, b.Chords[1])
	assert.Equal(t, Entry{Label: "Bdim", Code: "chord_B"}, b.Chords[6])
	assert.Equal(t, b.Chords[0], b.Chords[7])
	assert.Equal(t, b.Chords[4], b.Chords[11])

	assert.Equal(t, Entry{Label: "C", Code: "note_C"}, b.Notes[0])
	assert.Equal(t, b.Notes[3], b.Notes[10])
}

func TestSafeCodes(t *testing.T) {
	b, err := NewBanks(A)
	require.NoError(t, err)

	// A major: A B C# D E F# G#
	assert.Equal(t, Entry{Label: "C#min", Code: "chord_Cs"}, b.Chords[2])
	assert.Equal(t, Entry{Label: "G#", Code: "note_Gs"}, b.Notes[6])
}

func TestParsePitchClass(t *testing.T) {
	for in, want := range map[string]PitchClass{"C": C, "c#": Cs, "Fs": Fs, " a ": A} {
		got, err := ParsePitchClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePitchClass("X")
	assert.Error(t, err)
	_, err = ParsePitchClass("")
	assert.Error(t, err)
}

func TestForKey(t *testing.T) {
	b, err := NewBanks(G)
	require.NoError(t, err)

	hand, entry, ok := b.ForKey("q")
	require.True(t, ok)
	assert.Equal(t, HandChord, hand)
	assert.Equal(t, "Gmaj", entry.Label)

	hand, entry, ok = b.ForKey("/")
	require.True(t, ok)
	assert.Equal(t, HandNote, hand)
	assert.Equal(t, b.Notes[11], entry)

	_, _, ok = b.ForKey("y")
	assert.False(t, ok)
}

func TestTriadIntervals(t *testing.T) {
	b, err := NewBanks(C)
	require.NoError(t, err)

	tr, ok := b.TriadFor("chord_A")
	require.True(t, ok)
	assert.Equal(t, Minor, tr.Quality)
	assert.Equal(t, [3]int{0, 3, 7}, tr.Intervals())

	tr, ok = b.TriadFor("chord_B")
	require.True(t, ok)
	assert.Equal(t, [3]int{0, 3, 6}, tr.Intervals())
}
