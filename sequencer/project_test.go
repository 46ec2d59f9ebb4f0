package sequencer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSaveAndLoad(t *testing.T) {
	p := testPattern("A", 8)
	a, _, _ := newTestArrangement(t, p)
	a.SetBPM(90)
	a.PlacePattern(0, p)

	projects := NewProjects(named("Song One"))
	saved, err := projects.Save(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Song One", saved.Name)
	assert.Contains(t, saved.ID, "proj_")
	assert.False(t, saved.SavedAt.IsZero())
	want := a.Snapshot()

	// mutate, then load back
	a.SetBPM(140)
	a.PlacePattern(1, p)

	loader := NewProjects(pick(0))
	loader.replace(projects.List())
	loaded, err := loader.Load(context.Background(), a)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, want, a.Snapshot())
}

func TestProjectSaveOffersDefaultName(t *testing.T) {
	a, _, _ := newTestArrangement(t)
	asker := &scriptedAsker{acceptDefault: true}

	saved, err := NewProjects(asker).Save(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, saved.Name)
	assert.Equal(t, []string{"Project name:"}, asker.prompts)
}

func TestProjectSaveCancelled(t *testing.T) {
	a, _, _ := newTestArrangement(t)
	projects := NewProjects(&scriptedAsker{})

	saved, err := projects.Save(context.Background(), a)
	assert.NoError(t, err)
	assert.Nil(t, saved)
	assert.Equal(t, 0, projects.Len())
}

func TestProjectLoadInvalidIndex(t *testing.T) {
	a, _, _ := newTestArrangement(t)
	a.SetBPM(77)

	empty := NewProjects(pick(0))
	_, err := empty.Load(context.Background(), a)
	assert.ErrorIs(t, err, ErrInvalidProjectIndex)

	for _, idx := range []int{-1, 1, 5} {
		projects := NewProjects(pick(idx))
		projects.Add("only", Snapshot{BPM: 100})

		_, err := projects.Load(context.Background(), a)
		assert.ErrorIs(t, err, ErrInvalidProjectIndex, "index %d", idx)
		assert.Equal(t, 77, a.BPM(), "arrangement untouched")
	}
}

func TestProjectLoadPromptListsProjects(t *testing.T) {
	a, _, _ := newTestArrangement(t)
	asker := &scriptedAsker{}
	projects := NewProjects(asker)
	projects.Add("First", Snapshot{})
	projects.Add("Second", Snapshot{})

	loaded, err := projects.Load(context.Background(), a)
	assert.NoError(t, err)
	assert.Nil(t, loaded, "cancelled")

	require.Len(t, asker.prompts, 1)
	assert.Contains(t, asker.prompts[0], "0: First")
	assert.Contains(t, asker.prompts[0], "1: Second")
}
