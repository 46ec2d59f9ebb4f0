package sequencer

import "fmt"

// DefaultLaneCount is the number of lanes a fresh arrangement starts with
const DefaultLaneCount = 4

// Lane is one horizontal track of the arrangement
type Lane struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	InstrumentID string `json:"instrumentId,omitempty"`
}

// NewLane creates lane number n (1-based)
func NewLane(n int) Lane {
	return Lane{
		ID:   fmt.Sprintf("trk_%d", n),
		Name: fmt.Sprintf("Track %d", n),
	}
}

// DefaultLanes returns n numbered lanes with no instrument
func DefaultLanes(n int) []Lane {
	if n <= 0 {
		n = DefaultLaneCount
	}
	lanes := make([]Lane, n)
	for i := range lanes {
		lanes[i] = NewLane(i + 1)
	}
	return lanes
}
