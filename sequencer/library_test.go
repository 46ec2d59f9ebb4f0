package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryAppendGetDelete(t *testing.T) {
	lib := NewLibrary()
	calls := 0
	lib.SetOnChange(func() { calls++ })

	a := testPattern("A", 32)
	b := testPattern("B", 16)
	assert.Equal(t, 0, lib.Append(a))
	assert.Equal(t, 1, lib.Append(b))

	got, err := lib.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	found, ok := lib.Find(a.ID)
	require.True(t, ok)
	assert.Equal(t, "A", found.Name)

	require.NoError(t, lib.Delete(0))
	assert.Equal(t, 1, lib.Len())
	_, ok = lib.Find(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 3, calls)
}

func TestLibraryOutOfRange(t *testing.T) {
	lib := NewLibrary(testPattern("A", 32))

	for _, idx := range []int{-1, 1, 99} {
		_, err := lib.Get(idx)
		assert.ErrorIs(t, err, ErrPatternNotFound, "index %d", idx)
		assert.ErrorIs(t, lib.Delete(idx), ErrPatternNotFound, "index %d", idx)
	}
	assert.Equal(t, 1, lib.Len())
}

func TestLibraryReturnsCopies(t *testing.T) {
	lib := NewLibrary(testPattern("A", 32, Event{Step: 0, Row: RowChord, Code: "chord_C"}))

	p, err := lib.Get(0)
	require.NoError(t, err)
	p.Events[0].Code = "mutated"

	again, _ := lib.Get(0)
	assert.Equal(t, "chord_C", again.Events[0].Code)
}

func TestPatternHelpers(t *testing.T) {
	p := testPattern("A", 8,
		Event{Step: 5, Code: "b"},
		Event{Step: 1, Code: "a"},
		Event{Step: 5, Code: "c"},
		Event{Step: 12, Code: "late"},
	)
	p.SortEvents()
	assert.Equal(t, []string{"a", "b", "c", "late"}, []string{p.Events[0].Code, p.Events[1].Code, p.Events[2].Code, p.Events[3].Code})

	byStep := p.EventsByStep()
	assert.Len(t, byStep[5], 2)

	mask := p.ContentMask()
	assert.Len(t, mask, 8)
	assert.True(t, mask[1])
	assert.True(t, mask[5])
	assert.False(t, mask[0])

	assert.Equal(t, DefaultPatternSteps, Pattern{}.Length())
	assert.Equal(t, DefaultBPM, Pattern{}.Tempo())
}
