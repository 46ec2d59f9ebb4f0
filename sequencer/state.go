package sequencer

// Block is a placement of a library pattern on the arrangement timeline
type Block struct {
	ID          string `json:"id"`
	PatternID   string `json:"patternId"`
	Name        string `json:"name"`
	Lane        int    `json:"trackIndex"`
	StartStep   int    `json:"startStep"`
	LengthSteps int    `json:"length"`
}

// End returns the first step after the block
func (b Block) End() int {
	return b.StartStep + b.LengthSteps
}

// Covers reports whether step falls inside the block
func (b Block) Covers(step int) bool {
	return step >= b.StartStep && step < b.End()
}

// Overlaps reports whether two blocks share a lane and at least one step
func (b Block) Overlaps(o Block) bool {
	return b.Lane == o.Lane && b.StartStep < o.End() && o.StartStep < b.End()
}

// Snapshot is the serializable arrangement state
type Snapshot struct {
	BPM         int     `json:"bpm"`
	LengthSteps int     `json:"durationSteps"`
	Lanes       []Lane  `json:"tracks"`
	Blocks      []Block `json:"blocks"`
}

// Clone returns a deep copy with non-nil slices
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Lanes = make([]Lane, len(s.Lanes))
	copy(c.Lanes, s.Lanes)
	c.Blocks = make([]Block, len(s.Blocks))
	copy(c.Blocks, s.Blocks)
	return c
}
