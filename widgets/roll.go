package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RollRow is one row of a piano roll: which steps hold events
type RollRow struct {
	Name  string
	Steps []bool
}

// RollStyle holds the symbols and colors for a piano roll
type RollStyle struct {
	Empty, Active, Playhead, Beyond rune
	Dim, Hit, Head                  lipgloss.Color
}

// RenderRoll draws rows over width steps. Steps past a row's length draw
// as Beyond; playhead < 0 hides the playhead.
func RenderRoll(rows []RollRow, width, playhead int, st RollStyle) string {
	var lines []string
	for _, row := range rows {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-10s ", truncate(row.Name, 10)))
		for s := 0; s < width; s++ {
			switch {
			case s >= len(row.Steps):
				line.WriteString(RenderCell(st.Beyond, st.Dim))
			case s == playhead:
				if row.Steps[s] {
					line.WriteString(RenderCell(st.Active, st.Head))
				} else {
					line.WriteString(RenderCell(st.Playhead, st.Head))
				}
			case row.Steps[s]:
				line.WriteString(RenderCell(st.Active, st.Hit))
			default:
				line.WriteString(RenderCell(st.Empty, st.Dim))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
