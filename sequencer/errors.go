package sequencer

import "errors"

var (
	// ErrInstrumentNotEquipped aborts recording and practice when the
	// equipment gate reports no instrument
	ErrInstrumentNotEquipped = errors.New("instrument not equipped")

	// ErrPatternNotFound is returned for a missing or deleted pattern index
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrInvalidProjectIndex is returned when loading an out-of-range project
	ErrInvalidProjectIndex = errors.New("invalid project index")

	// ErrBlockNotFound is returned when editing a block that does not exist
	ErrBlockNotFound = errors.New("block not found")
)
