package cmd

import (
	"fmt"
	"time"

	"tracklab/clock"
	"tracklab/debug"
	"tracklab/midi"
	"tracklab/scale"
	"tracklab/sequencer"
	"tracklab/sound"
	"tracklab/store"
)

type session struct {
	manager *sequencer.Manager
	outputs *midi.Outputs
}

// openSession builds a manager from cfg and loads persisted state
func openSession(asker sequencer.Asker) (*session, error) {
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}

	key, err := scale.ParsePitchClass(cfg.Music.Key)
	if err != nil {
		return nil, err
	}

	inst := sound.DefaultInstrument
	if cfg.AudioFolder != "" {
		inst.AudioFolder = cfg.AudioFolder
	}
	samples := sound.SampleSink{
		Instrument: inst,
		Play: func(path string) {
			debug.Log("sound", "sample %s", path)
		},
	}

	s := &session{}
	sinks := []sound.Sink{samples}
	if debug.Enabled() {
		sinks = append(sinks, sound.LogSink{})
	}
	var midiSink *midi.Sink
	if cfg.MIDI.PortName != "" {
		s.outputs = midi.NewOutputs()
		send, err := s.outputs.Sender(cfg.MIDI.PortName)
		if err != nil {
			debug.Log("midi", "output disabled: %v", err)
		} else {
			midiSink = midi.NewSink(send, midi.SinkConfig{
				Channel:  uint8(cfg.MIDI.Channel - 1),
				Velocity: uint8(cfg.MIDI.Velocity),
				Octave:   cfg.MIDI.Octave,
			})
			sinks = append(sinks, midiSink)
		}
	}

	m, err := sequencer.NewManager(sequencer.Options{
		Source:        clock.Realtime{},
		Gate:          sequencer.StaticGate(cfg.Equipped),
		Asker:         asker,
		Sink:          sound.Multi(sinks...),
		Store:         store.NewFile(dir),
		Instrument:    inst.ID,
		Key:           key,
		RecordBPM:     cfg.Music.RecordBPM,
		BPM:           cfg.Music.ArrangementBPM,
		TimelineSteps: cfg.Music.TimelineSteps,
		Lanes:         cfg.Music.Lanes,
		AutosaveDelay: time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Load(); err != nil {
		return nil, fmt.Errorf("load saved state: %w", err)
	}
	if midiSink != nil {
		m.OnKeyChange(midiSink.SetBanks)
	}

	s.manager = m
	return s, nil
}

func (s *session) close() {
	if err := s.manager.Close(); err != nil {
		debug.Log("session", "close: %v", err)
	}
	if s.outputs != nil {
		s.outputs.Close()
	}
}
