package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

var plainTimeline = TimelineStyle{Fill: '#', Selected: '@', Empty: '.', Playhead: '|'}

func TestRenderTimeline(t *testing.T) {
	out := RenderTimeline(
		[]string{"Track 1", "Track 2"},
		[]TimelineBlock{
			{Lane: 0, Start: 0, Length: 4},
			{Lane: 1, Start: 8, Length: 4, Selected: true},
		},
		16, 16, 6, plainTimeline,
	)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "####..|.........")
	assert.Contains(t, lines[1], "......|.@@@@....")
}

func TestRenderTimelineCompresses(t *testing.T) {
	out := RenderTimeline([]string{"A"}, []TimelineBlock{{Lane: 0, Start: 4, Length: 4}}, 128, 32, -1, plainTimeline)
	assert.Contains(t, out, ".#"+strings.Repeat(".", 30))
}

func TestRenderRoll(t *testing.T) {
	st := RollStyle{Empty: '.', Active: 'o', Playhead: '>', Beyond: '-'}
	out := RenderRoll([]RollRow{{Name: "chord", Steps: []bool{true, false, false, true}}}, 6, 1, st)
	assert.Contains(t, out, "o>.o--")
}

func TestRenderBank(t *testing.T) {
	slots := []BankSlot{{"q", "Cmaj"}, {"w", "Dmin"}, {"e", "Emin"}}
	out := RenderBank("Chords", slots, 1, 2, BankStyle{Key: lipgloss.Color("1")})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Chords", lines[0])
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "[w]")
	assert.Contains(t, lines[2], "Emin")
}

func TestRenderKeyLine(t *testing.T) {
	assert.Equal(t, "space:play  tab:view", RenderKeyLine([]KeyBinding{{"space", "play"}, {"tab", "view"}}))
}
