package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepInterval(t *testing.T) {
	tests := []struct {
		name string
		bpm  int
		want time.Duration
	}{
		{name: "120 bpm", bpm: 120, want: 125 * time.Millisecond},
		{name: "300 bpm above floor", bpm: 300, want: 50 * time.Millisecond},
		{name: "4000 bpm clamped", bpm: 4000, want: MinInterval},
		{name: "zero bpm", bpm: 0, want: MinInterval},
		{name: "60 bpm", bpm: 60, want: 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepInterval(tt.bpm))
		})
	}
}

func TestLoopWrapsAndKeepsRunning(t *testing.T) {
	src := NewManual()
	var steps []int
	c := New(src, 120, 4, Loop, func(step int) { steps = append(steps, step) })

	c.Start(0)
	src.Advance(6 * StepInterval(120))

	assert.Equal(t, []int{0, 1, 2, 3, 0, 1}, steps)
	assert.True(t, c.Running())
	assert.Equal(t, 2, c.Current())
}

func TestOneShotStopsAfterOnePass(t *testing.T) {
	src := NewManual()
	var steps []int
	c := New(src, 120, 4, OneShot, func(step int) { steps = append(steps, step) })

	c.Start(0)
	src.Advance(10 * StepInterval(120))

	assert.Equal(t, []int{0, 1, 2, 3}, steps)
	assert.False(t, c.Running())
	assert.Equal(t, 0, src.Active())
}

func TestStopPreventsFurtherTicks(t *testing.T) {
	src := NewManual()
	count := 0
	c := New(src, 120, 16, Loop, func(int) { count++ })

	c.Start(0)
	src.Advance(3 * StepInterval(120))
	require.Equal(t, 3, count)

	c.Stop()
	c.Stop() // idempotent
	src.Advance(10 * StepInterval(120))

	assert.Equal(t, 3, count)
	assert.Equal(t, 0, c.Current())
	assert.False(t, c.Running())
}

func TestStartFromResumeStep(t *testing.T) {
	src := NewManual()
	var steps []int
	c := New(src, 120, 8, Loop, func(step int) { steps = append(steps, step) })

	c.Start(6)
	assert.Equal(t, 6, c.Current())
	src.Advance(3 * StepInterval(120))

	assert.Equal(t, []int{6, 7, 0}, steps)
}

func TestRestartReplacesPreviousRun(t *testing.T) {
	src := NewManual()
	count := 0
	c := New(src, 120, 16, Loop, func(int) { count++ })

	c.Start(0)
	c.Start(0)
	src.Advance(2 * StepInterval(120))

	assert.Equal(t, 2, count)
	assert.Equal(t, 1, src.Active())
}

func TestStopFromCallback(t *testing.T) {
	src := NewManual()
	var c *Clock
	count := 0
	c = New(src, 120, 16, Loop, func(step int) {
		count++
		if step == 1 {
			c.Stop()
		}
	})

	c.Start(0)
	src.Advance(8 * StepInterval(120))

	assert.Equal(t, 2, count)
}

func TestRealtimeTicks(t *testing.T) {
	ticks := make(chan int, 16)
	c := New(Realtime{}, 4000, 4, OneShot, func(step int) { ticks <- step })

	c.Start(0)
	defer c.Stop()

	var got []int
	timeout := time.After(2 * time.Second)
	for len(got) < 4 {
		select {
		case s := <-ticks:
			got = append(got, s)
		case <-timeout:
			t.Fatalf("timed out after %v", got)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}
