package scale

// BankSize is the number of slots in each input bank
const BankSize = 12

// Quality of a diatonic triad
type Quality string

const (
	Major      Quality = "maj"
	Minor      Quality = "min"
	Diminished Quality = "dim"
)

// Triad qualities by degree: I ii iii IV V vi vii°
var degreeQualities = [7]Quality{Major, Minor, Minor, Major, Major, Minor, Diminished}

// Entry is a single bank slot. Code identifies the sound and is stable
// across display changes.
type Entry struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Bank is a fixed 12-slot input mapping
type Bank [BankSize]Entry

// Triad is a diatonic chord on one scale degree
type Triad struct {
	Root    PitchClass
	Quality Quality
}

// Entry renders the triad as a bank slot
func (t Triad) Entry() Entry {
	return Entry{Label: string(t.Root) + string(t.Quality), Code: ChordCode(t.Root)}
}

// Intervals returns the semitone offsets of the chord tones above the root
func (t Triad) Intervals() [3]int {
	switch t.Quality {
	case Minor:
		return [3]int{0, 3, 7}
	case Diminished:
		return [3]int{0, 3, 6}
	default:
		return [3]int{0, 4, 7}
	}
}

// ChordCode is the sound code for a chord rooted on pc
func ChordCode(pc PitchClass) string {
	return "chord_" + pc.Safe()
}

// NoteCode is the sound code for a single note
func NoteCode(pc PitchClass) string {
	return "note_" + pc.Safe()
}

// Triads returns the 7 diatonic triads of the major key on root.
func Triads(root PitchClass) ([]Triad, error) {
	degrees, err := MajorScale(root)
	if err != nil {
		return nil, err
	}
	triads := make([]Triad, len(degrees))
	for i, pc := range degrees {
		triads[i] = Triad{Root: pc, Quality: degreeQualities[i]}
	}
	return triads, nil
}

// Banks holds the chord and note banks generated for one key
type Banks struct {
	Root   PitchClass
	Triads []Triad
	Chords Bank
	Notes  Bank
}

// NewBanks generates both banks for root. Slots cycle through the 7
// degrees: bank[i] = degree[i mod 7].
func NewBanks(root PitchClass) (Banks, error) {
	triads, err := Triads(root)
	if err != nil {
		return Banks{}, err
	}

	b := Banks{Root: root, Triads: triads}
	for i := 0; i < BankSize; i++ {
		t := triads[i%len(triads)]
		b.Chords[i] = t.Entry()
		b.Notes[i] = Entry{Label: string(t.Root), Code: NoteCode(t.Root)}
	}
	return b, nil
}

// TriadFor returns the triad whose chord code matches code
func (b Banks) TriadFor(code string) (Triad, bool) {
	for _, t := range b.Triads {
		if ChordCode(t.Root) == code {
			return t, true
		}
	}
	return Triad{}, false
}
