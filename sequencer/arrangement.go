package sequencer

import (
	"fmt"
	"sort"
	"sync"

	"tracklab/clock"
	"tracklab/debug"
	"tracklab/sound"
)

const (
	DefaultTimelineSteps = 128

	// PlacementMargin is the gap kept between consecutive placed blocks
	PlacementMargin = 2
)

// PatternSource resolves a block's pattern at playback time
type PatternSource interface {
	Find(id string) (Pattern, bool)
}

// Arrangement is the multi-lane timeline of pattern blocks with a looping
// transport.
type Arrangement struct {
	src      clock.Source
	patterns PatternSource
	player   *Player

	mu        sync.Mutex
	sink      sound.Sink
	bpm       int
	length    int
	lanes     []Lane
	blocks    []Block
	selected  string
	transport *clock.Clock
	playing   bool
	head      int // last step the transport reported
	gen       uint64
	onChange  func()
	onStep    func(step int)
}

// NewArrangement creates an empty arrangement with default tempo, length
// and lanes.
func NewArrangement(src clock.Source, patterns PatternSource, sink sound.Sink) *Arrangement {
	return &Arrangement{
		src:      src,
		patterns: patterns,
		player:   NewPlayer(src),
		sink:     sink,
		bpm:      DefaultBPM,
		length:   DefaultTimelineSteps,
		lanes:    DefaultLanes(DefaultLaneCount),
		blocks:   []Block{},
	}
}

// OnChange registers a callback run after every edit
func (a *Arrangement) OnChange(fn func()) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// OnStep registers a callback run on every transport step
func (a *Arrangement) OnStep(fn func(step int)) {
	a.mu.Lock()
	a.onStep = fn
	a.mu.Unlock()
}

func (a *Arrangement) changed() {
	a.mu.Lock()
	fn := a.onChange
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetSink replaces the sink used for playback
func (a *Arrangement) SetSink(sink sound.Sink) {
	a.mu.Lock()
	a.sink = sink
	a.mu.Unlock()
}

// SetBPM sets the transport tempo. Takes effect on the next Play.
func (a *Arrangement) SetBPM(bpm int) {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	a.mu.Lock()
	a.bpm = bpm
	a.mu.Unlock()
	a.changed()
}

// BPM returns the transport tempo
func (a *Arrangement) BPM() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bpm
}

// SetLength sets the timeline length in steps
func (a *Arrangement) SetLength(steps int) {
	if steps <= 0 {
		steps = DefaultTimelineSteps
	}
	a.mu.Lock()
	a.length = steps
	a.mu.Unlock()
	a.changed()
}

// Length returns the timeline length in steps
func (a *Arrangement) Length() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.length
}

// AddLane appends a numbered lane and returns it
func (a *Arrangement) AddLane() Lane {
	a.mu.Lock()
	lane := NewLane(len(a.lanes) + 1)
	a.lanes = append(a.lanes, lane)
	a.mu.Unlock()
	a.changed()
	return lane
}

// SetLaneCount resets the lanes to n numbered lanes
func (a *Arrangement) SetLaneCount(n int) {
	a.mu.Lock()
	a.lanes = DefaultLanes(n)
	a.mu.Unlock()
	a.changed()
}

// Lanes returns a copy of the lanes
func (a *Arrangement) Lanes() []Lane {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Lane, len(a.lanes))
	copy(out, a.lanes)
	return out
}

// Blocks returns a copy of the blocks
func (a *Arrangement) Blocks() []Block {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Block, len(a.blocks))
	copy(out, a.blocks)
	return out
}

// Block looks a block up by id
func (a *Arrangement) Block(id string) (Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(id)
	if i < 0 {
		return Block{}, false
	}
	return a.blocks[i], true
}

func (a *Arrangement) indexLocked(id string) int {
	for i, b := range a.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// NextStart returns the earliest start on lane where a block of the given
// length fits, keeping PlacementMargin after every existing block.
func (a *Arrangement) NextStart(lane, length int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextStartLocked(lane, length)
}

func (a *Arrangement) nextStartLocked(lane, length int) int {
	var inLane []Block
	for _, b := range a.blocks {
		if b.Lane == lane {
			inLane = append(inLane, b)
		}
	}
	sort.Slice(inLane, func(i, j int) bool { return inLane[i].StartStep < inLane[j].StartStep })

	cur := 0
	for _, b := range inLane {
		if cur+length+PlacementMargin <= b.StartStep {
			break
		}
		cur = max(cur, b.End()+PlacementMargin)
	}
	return clamp(cur, 0, a.length-1)
}

// PlacePattern adds a block for p on lane at the earliest free start and
// selects it.
func (a *Arrangement) PlacePattern(lane int, p Pattern) Block {
	a.mu.Lock()
	lane = clamp(lane, 0, len(a.lanes)-1)
	length := p.Length()
	b := Block{
		ID:          newID("blk_"),
		PatternID:   p.ID,
		Name:        p.Name,
		Lane:        lane,
		StartStep:   a.nextStartLocked(lane, length),
		LengthSteps: length,
	}
	a.blocks = append(a.blocks, b)
	a.selected = b.ID
	a.mu.Unlock()

	debug.Log("arrange", "place %q lane=%d start=%d", b.Name, b.Lane, b.StartStep)
	a.changed()
	return b
}

// Relocate moves a block, clamping lane and step into range, and selects it
func (a *Arrangement) Relocate(id string, lane, step int) (Block, error) {
	a.mu.Lock()
	i := a.indexLocked(id)
	if i < 0 {
		a.mu.Unlock()
		return Block{}, fmt.Errorf("relocate %s: %w", id, ErrBlockNotFound)
	}
	b := &a.blocks[i]
	b.Lane = clamp(lane, 0, len(a.lanes)-1)
	b.StartStep = clamp(step, 0, a.length-1)
	a.selected = b.ID
	moved := *b
	a.mu.Unlock()

	a.changed()
	return moved, nil
}

// Duplicate copies a block on the same lane, offset by half its length
// (at least 2 steps), and selects the copy.
func (a *Arrangement) Duplicate(id string) (Block, error) {
	a.mu.Lock()
	i := a.indexLocked(id)
	if i < 0 {
		a.mu.Unlock()
		return Block{}, fmt.Errorf("duplicate %s: %w", id, ErrBlockNotFound)
	}
	orig := a.blocks[i]
	dup := orig
	dup.ID = newID("blk_")
	dup.StartStep = clamp(orig.StartStep+max(2, orig.LengthSteps/2), 0, a.length-1)
	a.blocks = append(a.blocks, dup)
	a.selected = dup.ID
	a.mu.Unlock()

	a.changed()
	return dup, nil
}

// Delete removes a block, clearing the selection if it was selected
func (a *Arrangement) Delete(id string) error {
	a.mu.Lock()
	i := a.indexLocked(id)
	if i < 0 {
		a.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrBlockNotFound)
	}
	a.blocks = append(a.blocks[:i], a.blocks[i+1:]...)
	if a.selected == id {
		a.selected = ""
	}
	a.mu.Unlock()

	a.changed()
	return nil
}

// Select marks a block as selected. An empty id clears the selection.
func (a *Arrangement) Select(id string) error {
	a.mu.Lock()
	if id != "" && a.indexLocked(id) < 0 {
		a.mu.Unlock()
		return fmt.Errorf("select %s: %w", id, ErrBlockNotFound)
	}
	a.selected = id
	a.mu.Unlock()

	a.changed()
	return nil
}

// Selected returns the selected block, if any
func (a *Arrangement) Selected() (Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(a.selected)
	if a.selected == "" || i < 0 {
		return Block{}, false
	}
	return a.blocks[i], true
}

// DuplicateSelected duplicates the selected block. No-op without a selection.
func (a *Arrangement) DuplicateSelected() (Block, bool) {
	sel, ok := a.Selected()
	if !ok {
		return Block{}, false
	}
	dup, err := a.Duplicate(sel.ID)
	return dup, err == nil
}

// DeleteSelected deletes the selected block. No-op without a selection.
func (a *Arrangement) DeleteSelected() bool {
	sel, ok := a.Selected()
	if !ok {
		return false
	}
	return a.Delete(sel.ID) == nil
}

// Play starts the looping transport from step 0. Every block whose start
// step is reached plays its pattern through the sink. No-op while playing.
func (a *Arrangement) Play() {
	a.mu.Lock()
	if a.playing {
		a.mu.Unlock()
		return
	}
	a.playing = true
	a.head = 0
	a.gen++
	gen := a.gen
	a.transport = clock.New(a.src, a.bpm, a.length, clock.Loop, func(step int) {
		a.tick(gen, step)
	})
	a.transport.Start(0)
	a.mu.Unlock()

	debug.Log("arrange", "play bpm=%d len=%d", a.bpm, a.length)
	a.changed()
}

func (a *Arrangement) tick(gen uint64, step int) {
	a.mu.Lock()
	if !a.playing || a.gen != gen {
		a.mu.Unlock()
		return
	}
	a.head = step
	var due []Pattern
	for _, b := range a.blocks {
		if b.StartStep != step {
			continue
		}
		p, ok := a.patterns.Find(b.PatternID)
		if !ok {
			debug.LogEvery(50, "arrange", "block %s: pattern %s missing", b.ID, b.PatternID)
			continue
		}
		due = append(due, p)
	}
	sink := a.sink
	onStep := a.onStep
	a.mu.Unlock()

	for _, p := range due {
		a.player.Play(p, sink)
	}
	if onStep != nil {
		onStep(step)
	}
}

// Stop halts the transport and rewinds to step 0. Patterns already started
// play out.
func (a *Arrangement) Stop() {
	a.mu.Lock()
	wasPlaying := a.stopLocked()
	a.mu.Unlock()

	if wasPlaying {
		debug.Log("arrange", "stop")
		a.changed()
	}
}

func (a *Arrangement) stopLocked() bool {
	wasPlaying := a.playing
	a.playing = false
	a.head = 0
	a.gen++
	if a.transport != nil {
		a.transport.Stop()
	}
	return wasPlaying
}

// Playing reports whether the transport is running
func (a *Arrangement) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Step returns the playhead: the step whose blocks fired last, 0 when
// stopped
func (a *Arrangement) Step() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.head
}

// Snapshot captures bpm, length, lanes and blocks
func (a *Arrangement) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		BPM:         a.bpm,
		LengthSteps: a.length,
		Lanes:       a.lanes,
		Blocks:      a.blocks,
	}.Clone()
}

// Restore replaces the arrangement with s. The transport is stopped and the
// selection cleared. Missing bpm or length fall back to defaults; a
// snapshot without lanes keeps the current lanes.
func (a *Arrangement) Restore(s Snapshot) {
	s = s.Clone()

	a.mu.Lock()
	a.stopLocked()
	a.bpm = s.BPM
	if a.bpm <= 0 {
		a.bpm = DefaultBPM
	}
	a.length = s.LengthSteps
	if a.length <= 0 {
		a.length = DefaultTimelineSteps
	}
	if len(s.Lanes) > 0 {
		a.lanes = s.Lanes
	}
	a.blocks = s.Blocks
	a.selected = ""
	a.mu.Unlock()

	debug.Log("arrange", "restore bpm=%d blocks=%d", s.BPM, len(s.Blocks))
	a.changed()
}
