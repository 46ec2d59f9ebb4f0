package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BankSlot is one playable slot of a bank
type BankSlot struct {
	Key   string // computer key
	Label string // chord or note name
}

// BankStyle colors a bank row
type BankStyle struct {
	Key   lipgloss.Color
	Label lipgloss.Color
	Lit   lipgloss.Color // last slot played
}

// RenderBank renders slots as "[q] Cmaj  [w] Dmin ...", wrapping every
// perRow slots. lit is the index of the last slot played, -1 for none.
func RenderBank(title string, slots []BankSlot, lit, perRow int, st BankStyle) string {
	if perRow <= 0 {
		perRow = len(slots)
	}
	keyStyle := lipgloss.NewStyle().Foreground(st.Key)
	labelStyle := lipgloss.NewStyle().Foreground(st.Label)
	litStyle := lipgloss.NewStyle().Foreground(st.Lit).Bold(true)

	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	var line strings.Builder
	for i, s := range slots {
		if i > 0 && i%perRow == 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
		label := labelStyle.Render(fmt.Sprintf("%-5s", s.Label))
		if i == lit {
			label = litStyle.Render(fmt.Sprintf("%-5s", s.Label))
		}
		line.WriteString(keyStyle.Render("[" + s.Key + "]"))
		line.WriteString(" ")
		line.WriteString(label)
		line.WriteString(" ")
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
