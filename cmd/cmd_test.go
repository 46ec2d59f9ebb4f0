package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"tracklab/sequencer"
	"tracklab/store"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	conf := filepath.Join(t.TempDir(), "missing.json")
	rootCmd.SetArgs(append([]string{"--config", conf}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// seed writes one pattern and one project placing it into dir
func seed(t *testing.T, dir string) {
	t.Helper()
	m, err := sequencer.NewManager(sequencer.Options{Store: store.NewFile(dir)})
	require.NoError(t, err)

	p := sequencer.NewPattern(sequencer.DefaultInstrument, 120)
	p.Name = "Intro"
	p.LengthSteps = 16
	p.Events = []sequencer.Event{
		{Step: 0, Row: sequencer.RowChord, Code: "chord_C"},
		{Step: 8, Row: sequencer.RowNote1, Code: "note_E"},
	}
	m.Library.Append(p)
	m.Arrangement.PlacePattern(0, p)
	m.Projects.Add("Demo", m.Arrangement.Snapshot())

	require.NoError(t, m.Save())
	require.NoError(t, m.Close())
}

func TestScaleCommand(t *testing.T) {
	out := execute(t, "scale", "G")

	assert.Contains(t, out, "G major")
	assert.Contains(t, out, "F#dim")
	assert.Contains(t, out, "chord_G")
}

func TestProjectsCommandEmpty(t *testing.T) {
	out := execute(t, "--data-dir", t.TempDir(), "projects")
	assert.Contains(t, out, "No saved projects yet.")
}

func TestProjectsAndPatternsList(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out := execute(t, "--data-dir", dir, "projects")
	assert.Contains(t, out, "0: Demo")
	assert.Contains(t, out, "1 blocks")

	out = execute(t, "--data-dir", dir, "patterns")
	assert.Contains(t, out, "0: Intro")
	assert.Contains(t, out, "2 events")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	tests := []struct {
		name    string
		pattern string
		tracks  int // tempo track plus content
	}{
		{name: "project", pattern: "--pattern=false", tracks: 1 + sequencer.DefaultLaneCount},
		{name: "pattern", pattern: "--pattern=true", tracks: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.mid")
			out := execute(t, "--data-dir", dir, "export", tt.pattern, "0", path)
			assert.Contains(t, out, "wrote "+path)

			f, err := smf.ReadFile(path)
			require.NoError(t, err)
			assert.Len(t, f.Tracks, tt.tracks)
		})
	}
}
