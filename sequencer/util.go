package sequencer

import (
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Integer](v, lo, hi T) T {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// newID returns a collision-resistant id with a readable kind prefix
func newID(prefix string) string {
	return prefix + uuid.NewString()
}
