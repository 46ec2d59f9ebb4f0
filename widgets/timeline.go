package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TimelineBlock is a block as drawn on the timeline
type TimelineBlock struct {
	Lane     int
	Start    int
	Length   int
	Name     string
	Selected bool
}

// TimelineStyle holds the symbols and colors for the timeline
type TimelineStyle struct {
	Fill, Selected, Empty, Playhead rune
	LaneColors                      []lipgloss.Color
	Dim, Head, Cursor               lipgloss.Color
}

// TimelineCell maps a character column to a step range
func TimelineCell(col, stepsPerCell int) (from, to int) {
	return col * stepsPerCell, (col+1)*stepsPerCell - 1
}

// RenderTimeline draws one row per lane, compressing length steps into
// width columns. playhead < 0 hides it.
func RenderTimeline(lanes []string, blocks []TimelineBlock, length, width, playhead int, st TimelineStyle) string {
	if width <= 0 {
		width = 64
	}
	perCell := (length + width - 1) / width
	if perCell < 1 {
		perCell = 1
	}
	cols := (length + perCell - 1) / perCell

	var lines []string
	for li, name := range lanes {
		color := st.Dim
		if len(st.LaneColors) > 0 {
			color = st.LaneColors[li%len(st.LaneColors)]
		}

		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-8s ", truncate(name, 8)))
		for c := 0; c < cols; c++ {
			from, to := TimelineCell(c, perCell)
			cell := RenderCell(st.Empty, st.Dim)
			for _, b := range blocks {
				if b.Lane != li || b.Start > to || b.Start+b.Length-1 < from {
					continue
				}
				if b.Selected {
					cell = RenderCell(st.Selected, st.Cursor)
					break
				}
				cell = RenderCell(st.Fill, color)
			}
			if playhead >= from && playhead <= to {
				cell = RenderCell(st.Playhead, st.Head)
			}
			line.WriteString(cell)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
