package scale

// Hand identifies which bank a computer key plays
type Hand int

const (
	HandNone Hand = iota
	HandChord
	HandNote
)

// Keyboard layout: left hand plays the chord bank, right hand the note bank.
var (
	ChordKeys = [BankSize]string{"q", "w", "e", "r", "a", "s", "d", "f", "z", "x", "c", "v"}
	NoteKeys  = [BankSize]string{"u", "i", "o", "p", "j", "k", "l", ";", "m", ",", ".", "/"}
)

// SlotForKey returns the hand and slot index for a key
func SlotForKey(key string) (Hand, int) {
	for i, k := range ChordKeys {
		if k == key {
			return HandChord, i
		}
	}
	for i, k := range NoteKeys {
		if k == key {
			return HandNote, i
		}
	}
	return HandNone, -1
}

// ForKey returns the bank entry a key plays in this key signature
func (b Banks) ForKey(key string) (Hand, Entry, bool) {
	hand, slot := SlotForKey(key)
	switch hand {
	case HandChord:
		return hand, b.Chords[slot], true
	case HandNote:
		return hand, b.Notes[slot], true
	}
	return HandNone, Entry{}, false
}
