// Package clock provides the sixteenth-note step ticker shared by the
// recorder, the pattern player and the arrangement transport.
package clock

import (
	"sync"
	"time"
)

const (
	// StepsPerBeat is the sixteenth-note subdivision
	StepsPerBeat = 4

	// MinInterval keeps pathological tempos from spinning the timer
	MinInterval = 30 * time.Millisecond
)

// Mode decides what happens when the step counter reaches its length
type Mode int

const (
	Loop    Mode = iota // wrap to 0 and keep going
	OneShot             // stop after the last step
)

// StepInterval returns the duration of one sixteenth note at bpm,
// floored at MinInterval.
func StepInterval(bpm int) time.Duration {
	if bpm <= 0 {
		return MinInterval
	}
	d := time.Duration(float64(time.Minute) / float64(bpm) / StepsPerBeat)
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// Clock is a quantized step ticker. Each tick reports the current step to
// onStep and then advances. Current returns the step the next tick will
// report, which is the most recently elapsed step boundary.
type Clock struct {
	src    Source
	bpm    int
	length int
	mode   Mode
	onStep func(step int)

	mu      sync.Mutex
	handle  Handle
	step    int
	running bool
	gen     uint64
}

// New creates a stopped clock
func New(src Source, bpm, length int, mode Mode, onStep func(step int)) *Clock {
	if length <= 0 {
		length = 1
	}
	return &Clock{
		src:    src,
		bpm:    bpm,
		length: length,
		mode:   mode,
		onStep: onStep,
	}
}

// Start begins ticking from step from. A running clock is stopped first.
func (c *Clock) Start(from int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	if from < 0 || from >= c.length {
		from = 0
	}
	c.step = from
	c.running = true
	gen := c.gen
	c.handle = c.src.Every(StepInterval(c.bpm), func() { c.tick(gen) })
}

// Stop halts the clock and rewinds it to step 0. No callback fires after
// Stop returns unless Start is called again.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.step = 0
}

func (c *Clock) stopLocked() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.running = false
	c.gen++
}

func (c *Clock) tick(gen uint64) {
	c.mu.Lock()
	if !c.running || c.gen != gen {
		c.mu.Unlock()
		return
	}

	step := c.step
	next := step + 1
	if next >= c.length {
		if c.mode == OneShot {
			c.stopLocked()
		}
		next = 0
	}
	c.step = next
	fn := c.onStep
	c.mu.Unlock()

	if fn != nil {
		fn(step)
	}
}

// Current returns the step position
func (c *Clock) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Running reports whether the clock is ticking
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Length returns the wrap length in steps
func (c *Clock) Length() int {
	return c.length
}

// BPM returns the tempo the clock was created with
func (c *Clock) BPM() int {
	return c.bpm
}
