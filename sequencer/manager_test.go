package sequencer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklab/clock"
	"tracklab/scale"
	"tracklab/sound"
	"tracklab/store"
)

type testSession struct {
	*Manager
	src   *clock.Manual
	sink  *sound.Recorder
	store *store.Memory
	asker *scriptedAsker
}

func newTestManager(t *testing.T, gate Gate) *testSession {
	t.Helper()
	s := &testSession{
		src:   clock.NewManual(),
		sink:  &sound.Recorder{},
		store: store.NewMemory(),
		asker: named("Take"),
	}
	m, err := NewManager(Options{
		Source: s.src,
		Gate:   gate,
		Asker:  s.asker,
		Sink:   s.sink,
		Store:  s.store,
	})
	require.NoError(t, err)
	s.Manager = m
	t.Cleanup(func() { m.Close() })
	return s
}

func TestManagerSetKey(t *testing.T) {
	s := newTestManager(t, nil)
	assert.Equal(t, scale.C, s.Key())

	require.NoError(t, s.SetKey("G"))
	assert.Equal(t, scale.G, s.Key())
	assert.Equal(t, "chord_G", s.Banks().Chords[0].Code)

	var music musicState
	found, err := s.store.Load(KeyMusic, &music)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, scale.G, music.CurrentKey)

	err = s.SetKey("H")
	var invalid *scale.InvalidRootError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, scale.G, s.Key(), "key unchanged")
}

func TestManagerOnKeyChange(t *testing.T) {
	s := newTestManager(t, nil)
	var roots []scale.PitchClass
	s.OnKeyChange(func(b scale.Banks) { roots = append(roots, b.Root) })
	assert.Equal(t, []scale.PitchClass{scale.C}, roots, "called with the current banks")

	require.NoError(t, s.SetKey("G"))
	assert.Error(t, s.SetKey("H"))
	assert.Equal(t, []scale.PitchClass{scale.C, scale.G}, roots, "invalid keys are not reported")

	require.NoError(t, s.store.Save(KeyMusic, musicState{CurrentKey: scale.E}))
	require.NoError(t, s.Load())
	assert.Equal(t, []scale.PitchClass{scale.C, scale.G, scale.E}, roots)
}

func TestManagerHandleKey(t *testing.T) {
	s := newTestManager(t, StaticGate(DefaultInstrument))

	assert.True(t, s.HandleKey("q"))
	assert.True(t, s.HandleKey("U"))
	assert.False(t, s.HandleKey("1"))
	assert.Equal(t, []string{"chord_C", "note_C"}, s.sink.Codes())
	assert.Empty(t, s.Recorder.Pending().Events, "not recording")
}

func TestManagerHandleKeyNeedsInstrument(t *testing.T) {
	s := newTestManager(t, StaticGate("drums"))

	assert.False(t, s.HandleKey("q"))
	assert.Empty(t, s.sink.Codes())
	assert.ErrorIs(t, s.StartPractice(), ErrInstrumentNotEquipped)
	assert.ErrorIs(t, s.StartRecording(), ErrInstrumentNotEquipped)
	assert.False(t, s.Practicing())
}

func TestManagerPractice(t *testing.T) {
	s := newTestManager(t, StaticGate(DefaultInstrument))
	require.NoError(t, s.StartPractice())
	assert.True(t, s.Practicing())
	s.StopPractice()
	assert.False(t, s.Practicing())
}

func TestManagerRecordAndImport(t *testing.T) {
	s := newTestManager(t, nil)

	require.NoError(t, s.StartRecording())
	s.HandleKey("w")
	s.src.Advance(2 * step)
	s.HandleKey("i")

	p, err := s.StopRecording(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Take", p.Name)
	require.Len(t, p.Events, 2)
	assert.Equal(t, Event{Step: 0, Row: RowChord, Code: "chord_D"}, withoutTime(p.Events[0]))
	assert.Equal(t, Event{Step: 2, Row: RowNote1, Code: "note_D"}, withoutTime(p.Events[1]))

	blk, err := s.ImportPattern(0)
	require.NoError(t, err)
	assert.Equal(t, 0, blk.Lane)
	assert.Equal(t, p.ID, blk.PatternID)

	_, err = s.ImportPattern(3)
	assert.ErrorIs(t, err, ErrPatternNotFound)
}

func withoutTime(ev Event) Event {
	ev.TimestampMs = 0
	return ev
}

func TestManagerPromptImport(t *testing.T) {
	s := newTestManager(t, nil)

	_, err := s.PromptImport(context.Background())
	assert.ErrorIs(t, err, ErrPatternNotFound, "empty library")

	s.Library.Append(testPattern("Riff", 8))
	s.asker.number, s.asker.numberOK = 0, true
	blk, err := s.PromptImport(context.Background())
	require.NoError(t, err)
	require.NotNil(t, blk)
	assert.Equal(t, "Riff", blk.Name)
	assert.Contains(t, s.asker.prompts[len(s.asker.prompts)-1], "0: Riff")

	s.asker.number = 4
	_, err = s.PromptImport(context.Background())
	assert.ErrorIs(t, err, ErrPatternNotFound)
}

func TestManagerPlayAndDeletePattern(t *testing.T) {
	s := newTestManager(t, nil)
	s.Library.Append(testPattern("Riff", 4, Event{Step: 0, Code: "chord_C"}))

	c, err := s.PlayPattern(0)
	require.NoError(t, err)
	s.src.Advance(step)
	assert.Equal(t, []string{"chord_C"}, s.sink.Codes())
	assert.True(t, c.Running())

	require.NoError(t, s.DeletePattern(0))
	_, err = s.PlayPattern(0)
	assert.ErrorIs(t, err, ErrPatternNotFound)
	assert.ErrorIs(t, s.DeletePattern(0), ErrPatternNotFound)
}

func TestManagerSaveLoad(t *testing.T) {
	s := newTestManager(t, nil)
	require.NoError(t, s.SetKey("D"))
	s.Library.Append(testPattern("Riff", 8))
	_, err := s.ImportPattern(0)
	require.NoError(t, err)
	s.asker.name = "Song"
	_, err = s.SaveProject(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Save())

	other, err := NewManager(Options{Source: clock.NewManual(), Store: s.store, Asker: pick(0)})
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Load())

	assert.Equal(t, scale.D, other.Key())
	assert.Equal(t, 1, other.Library.Len())
	assert.Equal(t, 1, other.Projects.Len())
	assert.Equal(t, s.Arrangement.Snapshot(), other.Arrangement.Snapshot())

	other.Arrangement.SetBPM(200)
	_, err = other.LoadProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultBPM, other.Arrangement.BPM())
}

func TestManagerLoadEmptyStore(t *testing.T) {
	s := newTestManager(t, nil)
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Library.Len())
	assert.Len(t, s.Arrangement.Lanes(), DefaultLaneCount)
}

func TestManagerAutosave(t *testing.T) {
	st := store.NewMemory()
	m, err := NewManager(Options{
		Source:        clock.NewManual(),
		Store:         st,
		AutosaveDelay: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	defer m.Close()

	m.Library.Append(testPattern("Riff", 8))

	require.Eventually(t, func() bool {
		var patterns []Pattern
		found, err := st.Load(KeyPatterns, &patterns)
		return err == nil && found && len(patterns) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestManagerNotifies(t *testing.T) {
	s := newTestManager(t, nil)
	for len(s.UpdateChan) > 0 {
		<-s.UpdateChan
	}
	s.Arrangement.AddLane()
	select {
	case <-s.UpdateChan:
	default:
		t.Fatal("expected an update")
	}
}
