package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"tracklab/scale"
)

// SplitNote divides a MIDI keyboard: below it plays the chord bank, from it
// up the note bank
const SplitNote uint8 = 60

// KeyForNote maps a MIDI note to the computer key bound to the same bank
// slot
func KeyForNote(note uint8) string {
	slot := int(note) % scale.BankSize
	if note < SplitNote {
		return scale.ChordKeys[slot]
	}
	return scale.NoteKeys[slot]
}

// NoteEvent is sent when a note is played on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
}

// Keyboard turns a MIDI input into bank key presses
type Keyboard struct {
	id       string
	stopFunc func()
	keys     chan string
	done     chan struct{}
	once     sync.Once
}

// NewKeyboard starts listening on inPort
func NewKeyboard(id string, inPort drivers.In) (*Keyboard, error) {
	kb := &Keyboard{
		id:   id,
		keys: make(chan string, 32),
		done: make(chan struct{}),
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
			kb.handle(NoteEvent{Note: note, Velocity: velocity, Channel: channel})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	kb.stopFunc = stop
	return kb, nil
}

func (kb *Keyboard) handle(ev NoteEvent) {
	select {
	case kb.keys <- KeyForNote(ev.Note):
	default:
	}
}

func (kb *Keyboard) ID() string {
	return kb.id
}

// Keys returns the stream of bank keys played
func (kb *Keyboard) Keys() <-chan string {
	return kb.keys
}

// Done is closed when the keyboard is closed
func (kb *Keyboard) Done() <-chan struct{} {
	return kb.done
}

func (kb *Keyboard) Close() error {
	kb.once.Do(func() {
		if kb.stopFunc != nil {
			kb.stopFunc()
		}
		close(kb.done)
	})
	return nil
}
