package sequencer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tracklab/clock"
	"tracklab/debug"
	"tracklab/scale"
	"tracklab/sound"
	"tracklab/store"
)

// Store keys
const (
	KeyMusic    = "music"
	KeyPatterns = "patterns"
	KeyProjects = "projects"
	KeyDAW      = "daw"
)

// Options configures a Manager. Zero values get defaults.
type Options struct {
	Source        clock.Source
	Gate          Gate
	Asker         Asker
	Sink          sound.Sink
	Store         store.Store
	Instrument    string
	Key           scale.PitchClass
	RecordBPM     int
	BPM           int
	TimelineSteps int
	Lanes         int
	AutosaveDelay time.Duration
}

type musicState struct {
	CurrentKey scale.PitchClass `json:"currentKey"`
}

// Manager is the session context: current key and banks, the recorder,
// the pattern library, the arrangement and saved projects.
type Manager struct {
	Library     *Library
	Recorder    *Recorder
	Arrangement *Arrangement
	Projects    *Projects

	src      clock.Source
	gate     Gate
	asker    Asker
	store    store.Store
	player   *Player
	autosave *Autosaver

	mu         sync.RWMutex
	key        scale.PitchClass
	banks      scale.Banks
	instrument string
	recordBPM  int
	practicing bool
	sink       sound.Sink
	preview    *clock.Clock
	onKey      func(scale.Banks)

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager wires a session from opts
func NewManager(opts Options) (*Manager, error) {
	if opts.Source == nil {
		opts.Source = clock.Realtime{}
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Sink == nil {
		opts.Sink = sound.Discard
	}
	if opts.Instrument == "" {
		opts.Instrument = DefaultInstrument
	}
	if opts.Key == "" {
		opts.Key = scale.C
	}
	if opts.RecordBPM <= 0 {
		opts.RecordBPM = DefaultBPM
	}

	banks, err := scale.NewBanks(opts.Key)
	if err != nil {
		return nil, err
	}

	sink := sound.Safe(opts.Sink)
	lib := NewLibrary()

	m := &Manager{
		Library:     lib,
		Recorder:    NewRecorder(opts.Source, opts.Gate, opts.Asker, lib),
		Arrangement: NewArrangement(opts.Source, lib, sink),
		Projects:    NewProjects(opts.Asker),
		src:         opts.Source,
		gate:        opts.Gate,
		asker:       opts.Asker,
		store:       opts.Store,
		player:      NewPlayer(opts.Source),
		key:         opts.Key,
		banks:       banks,
		instrument:  opts.Instrument,
		recordBPM:   opts.RecordBPM,
		sink:        sink,
		UpdateChan:  make(chan struct{}, 1),
	}
	m.Recorder.SetInstrument(opts.Instrument)

	if opts.BPM > 0 {
		m.Arrangement.SetBPM(opts.BPM)
	}
	if opts.TimelineSteps > 0 {
		m.Arrangement.SetLength(opts.TimelineSteps)
	}
	if opts.Lanes > 0 {
		m.Arrangement.SetLaneCount(opts.Lanes)
	}

	m.autosave = NewAutosaver(opts.AutosaveDelay, m.Save)

	changed := func() {
		m.autosave.Trigger()
		m.notifyUpdate()
	}
	lib.SetOnChange(changed)
	m.Projects.SetOnChange(changed)
	m.Arrangement.OnChange(changed)
	m.Arrangement.OnStep(func(int) { m.notifyUpdate() })
	m.Recorder.OnStep(func(int) { m.notifyUpdate() })

	return m, nil
}

// Key returns the current key
func (m *Manager) Key() scale.PitchClass {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key
}

// Banks returns the chord and note banks for the current key
func (m *Manager) Banks() scale.Banks {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banks
}

// SetKey changes the key and rebuilds the banks. An invalid root leaves the
// key unchanged.
func (m *Manager) SetKey(root string) error {
	pc, err := scale.ParsePitchClass(root)
	if err != nil {
		return err
	}
	banks, err := scale.NewBanks(pc)
	if err != nil {
		return err
	}

	m.setBanks(banks)

	debug.Log("music", "key %s", pc)
	if err := m.store.Save(KeyMusic, musicState{CurrentKey: pc}); err != nil {
		debug.Log("music", "persist key: %v", err)
	}
	m.notifyUpdate()
	return nil
}

// OnKeyChange registers fn to receive the banks whenever the key changes.
// fn is called once right away with the current banks.
func (m *Manager) OnKeyChange(fn func(scale.Banks)) {
	m.mu.Lock()
	m.onKey = fn
	banks := m.banks
	m.mu.Unlock()
	if fn != nil {
		fn(banks)
	}
}

func (m *Manager) setBanks(banks scale.Banks) {
	m.mu.Lock()
	m.key = banks.Root
	m.banks = banks
	fn := m.onKey
	m.mu.Unlock()
	if fn != nil {
		fn(banks)
	}
}

// Instrument returns the instrument kind the session plays
func (m *Manager) Instrument() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instrument
}

// SetSink replaces the sound sink for live input and playback
func (m *Manager) SetSink(s sound.Sink) {
	sink := sound.Safe(s)
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
	m.Arrangement.SetSink(sink)
}

func (m *Manager) equipped() bool {
	return m.gate == nil || m.gate.IsInstrumentEquipped(m.Instrument())
}

// StartPractice enters practice mode
func (m *Manager) StartPractice() error {
	if !m.equipped() {
		return fmt.Errorf("practice %s: %w", m.Instrument(), ErrInstrumentNotEquipped)
	}
	m.mu.Lock()
	m.practicing = true
	m.mu.Unlock()
	m.notifyUpdate()
	return nil
}

// StopPractice leaves practice mode
func (m *Manager) StopPractice() {
	m.mu.Lock()
	m.practicing = false
	m.mu.Unlock()
	m.notifyUpdate()
}

// Practicing reports whether practice mode is on
func (m *Manager) Practicing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.practicing
}

// HandleKey plays the bank slot bound to key and records it when a take is
// in progress. Returns false when the key is unbound or nothing is
// equipped.
func (m *Manager) HandleKey(key string) bool {
	if !m.equipped() {
		return false
	}

	m.mu.RLock()
	hand, entry, ok := m.banks.ForKey(strings.ToLower(key))
	sink := m.sink
	m.mu.RUnlock()
	if !ok {
		return false
	}

	sink.Trigger(entry.Code)

	row := RowNote1
	if hand == scale.HandChord {
		row = RowChord
	}
	m.Recorder.Trigger(row, entry.Code)

	m.notifyUpdate()
	return true
}

// StartRecording begins a take at the configured record tempo
func (m *Manager) StartRecording() error {
	m.mu.RLock()
	bpm := m.recordBPM
	m.mu.RUnlock()

	if err := m.Recorder.Start(bpm); err != nil {
		return err
	}
	m.notifyUpdate()
	return nil
}

// StopRecording ends the take and commits it if the user names it
func (m *Manager) StopRecording(ctx context.Context) (*Pattern, error) {
	p, err := m.Recorder.Stop(ctx)
	m.notifyUpdate()
	return p, err
}

// PlayPattern previews library pattern index, replacing any running preview
func (m *Manager) PlayPattern(index int) (*clock.Clock, error) {
	p, err := m.Library.Get(index)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.preview != nil {
		m.preview.Stop()
	}
	m.preview = m.player.Play(p, m.sink)
	c := m.preview
	m.mu.Unlock()

	return c, nil
}

// DeletePattern removes library pattern index
func (m *Manager) DeletePattern(index int) error {
	return m.Library.Delete(index)
}

// ImportPattern places library pattern index on lane 0
func (m *Manager) ImportPattern(index int) (Block, error) {
	p, err := m.Library.Get(index)
	if err != nil {
		if errors.Is(err, ErrPatternNotFound) {
			return Block{}, fmt.Errorf("that pattern no longer exists: %w", err)
		}
		return Block{}, err
	}
	return m.Arrangement.PlacePattern(0, p), nil
}

// PromptImport lists the library, asks for an index and imports it.
// Returns nil when the user cancels.
func (m *Manager) PromptImport(ctx context.Context) (*Block, error) {
	list := m.Library.List()
	if len(list) == 0 {
		return nil, fmt.Errorf("no patterns yet: %w", ErrPatternNotFound)
	}
	if m.asker == nil {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("Import which pattern?\n\n")
	for i, p := range list {
		fmt.Fprintf(&b, "%d: %s\n", i, p.Name)
	}

	idx, ok := m.asker.AskNumber(ctx, b.String())
	if !ok {
		return nil, nil
	}
	blk, err := m.ImportPattern(idx)
	if err != nil {
		return nil, err
	}
	return &blk, nil
}

// SaveProject snapshots the arrangement as a named project
func (m *Manager) SaveProject(ctx context.Context) (*Project, error) {
	return m.Projects.Save(ctx, m.Arrangement)
}

// LoadProject restores a saved project chosen by index
func (m *Manager) LoadProject(ctx context.Context) (*Project, error) {
	return m.Projects.Load(ctx, m.Arrangement)
}

// Save persists library, projects, key and arrangement
func (m *Manager) Save() error {
	var errs []error
	if err := m.store.Save(KeyPatterns, m.Library.List()); err != nil {
		errs = append(errs, err)
	}
	if err := m.store.Save(KeyProjects, m.Projects.List()); err != nil {
		errs = append(errs, err)
	}
	if err := m.store.Save(KeyMusic, musicState{CurrentKey: m.Key()}); err != nil {
		errs = append(errs, err)
	}
	if err := m.store.Save(KeyDAW, m.Arrangement.Snapshot()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load restores whatever was persisted. Missing keys keep current state.
func (m *Manager) Load() error {
	var patterns []Pattern
	if found, err := m.store.Load(KeyPatterns, &patterns); err != nil {
		return err
	} else if found {
		m.Library.replace(patterns)
	}

	var projects []Project
	if found, err := m.store.Load(KeyProjects, &projects); err != nil {
		return err
	} else if found {
		m.Projects.replace(projects)
	}

	var music musicState
	if found, err := m.store.Load(KeyMusic, &music); err != nil {
		return err
	} else if found && music.CurrentKey.Valid() {
		banks, err := scale.NewBanks(music.CurrentKey)
		if err != nil {
			return err
		}
		m.setBanks(banks)
	}

	var snap Snapshot
	if found, err := m.store.Load(KeyDAW, &snap); err != nil {
		return err
	} else if found {
		m.Arrangement.Restore(snap)
	}

	debug.Log("manager", "loaded %d patterns, %d projects", m.Library.Len(), m.Projects.Len())
	m.notifyUpdate()
	return nil
}

// Close stops every clock and writes pending edits
func (m *Manager) Close() error {
	m.Arrangement.Stop()
	m.Recorder.Abort()

	m.mu.Lock()
	if m.preview != nil {
		m.preview.Stop()
	}
	m.mu.Unlock()

	return m.autosave.Flush()
}

// notifyUpdate sends non-blocking update signal to TUI
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
