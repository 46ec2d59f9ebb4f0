package sequencer

import (
	"tracklab/clock"
	"tracklab/debug"
	"tracklab/sound"
)

// FallbackCode plays when an event carries no code
const FallbackCode = "note_C"

// Player plays a pattern once through a sound sink on its own clock
type Player struct {
	src clock.Source
}

// NewPlayer creates a player driven by src
func NewPlayer(src clock.Source) *Player {
	return &Player{src: src}
}

// Play starts p and returns its clock. The clock stops itself after the
// last step; callers may Stop it early. Sink panics are logged and do not
// halt playback.
func (pl *Player) Play(p Pattern, sink sound.Sink) *clock.Clock {
	byStep := p.EventsByStep()
	out := sound.Safe(sink)

	c := clock.New(pl.src, p.Tempo(), p.Length(), clock.OneShot, func(step int) {
		for _, ev := range byStep[step] {
			code := ev.Code
			if code == "" {
				code = FallbackCode
			}
			out.Trigger(code)
		}
	})
	c.Start(0)

	debug.Log("player", "play %q bpm=%d len=%d", p.Name, p.Tempo(), p.Length())
	return c
}
