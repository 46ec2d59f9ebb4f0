package sequencer

import "context"

// Gate reports whether an instrument of the given kind is equipped
type Gate interface {
	IsInstrumentEquipped(kind string) bool
}

// GateFunc adapts a function to Gate
type GateFunc func(kind string) bool

func (f GateFunc) IsInstrumentEquipped(kind string) bool { return f(kind) }

// StaticGate is the id of the equipped instrument ("" = nothing equipped)
type StaticGate string

func (g StaticGate) IsInstrumentEquipped(kind string) bool {
	return g != "" && string(g) == kind
}

// Asker requests input from the user. ok is false when the user cancels;
// callers must then abort without changing state.
type Asker interface {
	AskString(ctx context.Context, prompt, def string) (value string, ok bool)
	AskNumber(ctx context.Context, prompt string) (value int, ok bool)
}
