package midi

import (
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"tracklab/debug"
	"tracklab/scale"
)

// DefaultGate is how long a triggered note sounds
const DefaultGate = 250 * time.Millisecond

// SinkConfig configures a Sink
type SinkConfig struct {
	Channel  uint8 // 0-15
	Velocity uint8
	Octave   int
	Gate     time.Duration
}

// Sink plays sound codes as MIDI notes. It implements sound.Sink.
type Sink struct {
	send func(gomidi.Message) error
	cfg  SinkConfig

	mu    sync.RWMutex
	banks *scale.Banks
}

// NewSink creates a sink writing through send
func NewSink(send func(gomidi.Message) error, cfg SinkConfig) *Sink {
	if cfg.Velocity == 0 || cfg.Velocity > 127 {
		cfg.Velocity = 100
	}
	if cfg.Channel > 15 {
		cfg.Channel = 0
	}
	if cfg.Gate <= 0 {
		cfg.Gate = DefaultGate
	}
	return &Sink{send: send, cfg: cfg}
}

// SetBanks sets the key used to voice chord qualities
func (s *Sink) SetBanks(b scale.Banks) {
	s.mu.Lock()
	s.banks = &b
	s.mu.Unlock()
}

// Trigger sends NoteOn for every note of code and schedules the NoteOffs
func (s *Sink) Trigger(code string) {
	s.mu.RLock()
	banks := s.banks
	s.mu.RUnlock()

	notes, ok := Voicing(code, banks, s.cfg.Octave)
	if !ok {
		debug.Log("midi", "no voicing for %q", code)
		return
	}

	ch := s.cfg.Channel
	for _, n := range notes {
		if err := s.send(gomidi.NoteOn(ch, n, s.cfg.Velocity)); err != nil {
			debug.Log("midi", "note on %d: %v", n, err)
		}
	}

	time.AfterFunc(s.cfg.Gate, func() {
		for _, n := range notes {
			if err := s.send(gomidi.NoteOff(ch, n)); err != nil {
				debug.Log("midi", "note off %d: %v", n, err)
			}
		}
	})
}
