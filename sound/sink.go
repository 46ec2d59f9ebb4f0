// Package sound defines the sound-trigger port. The core only decides which
// code to trigger and when; rendering audio is left to the sink.
package sound

import (
	"sync"

	"tracklab/debug"
)

// Sink plays a sound by code. Trigger is fire-and-forget.
type Sink interface {
	Trigger(code string)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(code string)

func (f SinkFunc) Trigger(code string) { f(code) }

// Discard ignores every trigger
var Discard Sink = SinkFunc(func(string) {})

type safeSink struct {
	sink Sink
}

// Safe wraps a sink so a failing trigger is swallowed and logged instead of
// unwinding into the caller's tick.
func Safe(s Sink) Sink {
	if s == nil {
		return Discard
	}
	if _, ok := s.(safeSink); ok {
		return s
	}
	return safeSink{sink: s}
}

func (s safeSink) Trigger(code string) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("sound", "trigger %q failed: %v", code, r)
		}
	}()
	s.sink.Trigger(code)
}

// Multi fans a trigger out to several sinks, each one isolated
func Multi(sinks ...Sink) Sink {
	safe := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			safe = append(safe, Safe(s))
		}
	}
	return SinkFunc(func(code string) {
		for _, s := range safe {
			s.Trigger(code)
		}
	})
}

// LogSink writes every trigger to the debug log
type LogSink struct{}

func (LogSink) Trigger(code string) {
	debug.Log("sound", "trigger %s", code)
}

// Recorder collects triggered codes, for tests and previews
type Recorder struct {
	mu    sync.Mutex
	codes []string
}

func (r *Recorder) Trigger(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

// Codes returns a copy of everything triggered so far
func (r *Recorder) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Reset forgets recorded codes
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = nil
}
