package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tracklab/scale"
	"tracklab/sequencer"
	"tracklab/widgets"
)

var (
	playKeys = []widgets.KeyBinding{
		{Key: "space", Desc: "rec"},
		{Key: "↑↓", Desc: "pattern"},
		{Key: "enter", Desc: "play"},
		{Key: "I", Desc: "place"},
		{Key: "X", Desc: "delete"},
		{Key: "K", Desc: "key"},
		{Key: "T", Desc: "practice"},
		{Key: "tab", Desc: "arrange"},
	}
	arrangeKeys = []widgets.KeyBinding{
		{Key: "space", Desc: "play"},
		{Key: "[]", Desc: "select"},
		{Key: "hjkl", Desc: "move"},
		{Key: "d", Desc: "dup"},
		{Key: "x", Desc: "del"},
		{Key: "i", Desc: "import"},
		{Key: "+/-", Desc: "bpm"},
		{Key: "s/o", Desc: "save/load"},
		{Key: "E", Desc: "export"},
		{Key: "tab", Desc: "play"},
	}
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var body, help string
	if m.view == viewArrange {
		body = m.arrangeView()
		help = widgets.RenderKeyLine(arrangeKeys)
	} else {
		body = m.playView()
		help = widgets.RenderKeyLine(playKeys)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(m.header()))
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	if m.prompt != nil {
		out.WriteString(m.promptView())
		out.WriteString("\n")
	} else if m.status != "" {
		out.WriteString(statusStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(help))
	return out.String()
}

func (m Model) header() string {
	sym := m.Theme.Symbols
	mgr := m.Manager
	arr := mgr.Arrangement

	state, step, bpm := sym.Stopped, arr.Step(), arr.BPM()
	switch {
	case mgr.Recorder.Recording():
		state = sym.Recording
		step = mgr.Recorder.CurrentStep()
		bpm = mgr.Recorder.Pending().BPM
	case arr.Playing():
		state = sym.Playing
	}

	practice := ""
	if mgr.Practicing() {
		practice = "  practice"
	}
	return fmt.Sprintf("tracklab  %c  key:%-2s  %3dbpm  step:%03d%s", state, mgr.Key(), bpm, step, practice)
}

func (m Model) playView() string {
	banks := m.Manager.Banks()
	bankStyle := widgets.BankStyle{
		Key:   m.Theme.Muted(),
		Label: m.Theme.FG(),
		Lit:   m.Theme.Success(),
	}

	chords := make([]widgets.BankSlot, scale.BankSize)
	notes := make([]widgets.BankSlot, scale.BankSize)
	for i := 0; i < scale.BankSize; i++ {
		chords[i] = widgets.BankSlot{Key: scale.ChordKeys[i], Label: banks.Chords[i].Label}
		notes[i] = widgets.BankSlot{Key: scale.NoteKeys[i], Label: banks.Notes[i].Label}
	}
	chordLit, noteLit := -1, -1
	switch m.lastHand {
	case scale.HandChord:
		chordLit = m.lastSlot
	case scale.HandNote:
		noteLit = m.lastSlot
	}

	var out strings.Builder
	out.WriteString(widgets.RenderBank("Chords", chords, chordLit, 4, bankStyle))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderBank("Notes", notes, noteLit, 4, bankStyle))
	out.WriteString("\n\n")
	out.WriteString(m.rollView())
	out.WriteString("\n\n")
	out.WriteString(m.libraryView())
	return out.String()
}

// rollView draws the pending take, one row per bank row that has events
func (m Model) rollView() string {
	rec := m.Manager.Recorder
	take := rec.Pending()
	length := take.Length()

	rows := make([]widgets.RollRow, 0, 2)
	for _, row := range []sequencer.BankRow{sequencer.RowChord, sequencer.RowNote1} {
		steps := make([]bool, length)
		for _, ev := range take.Events {
			if ev.Row == row && ev.Step >= 0 && ev.Step < length {
				steps[ev.Step] = true
			}
		}
		rows = append(rows, widgets.RollRow{Name: string(row), Steps: steps})
	}

	playhead := -1
	if rec.Recording() {
		playhead = rec.CurrentStep()
	}
	sym := m.Theme.Symbols
	return widgets.RenderRoll(rows, length, playhead, widgets.RollStyle{
		Empty: sym.StepEmpty, Active: sym.StepActive, Playhead: sym.StepPlayhead, Beyond: sym.StepBeyond,
		Dim: m.Theme.Muted(), Hit: m.Theme.Active(), Head: m.Theme.Cursor(),
	})
}

func (m Model) libraryView() string {
	patterns := m.Manager.Library.List()
	if len(patterns) == 0 {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("No patterns yet. Press space to record.")
	}

	cursor := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	var lines []string
	lines = append(lines, "Patterns")
	for i, p := range patterns {
		line := fmt.Sprintf("  %d: %-20s %3dbpm %2d events", i, p.Name, p.Tempo(), len(p.Events))
		if i == m.libIdx {
			line = cursor.Render(">" + line[1:])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) arrangeView() string {
	arr := m.Manager.Arrangement
	lanes := arr.Lanes()
	sel, hasSel := arr.Selected()

	names := make([]string, len(lanes))
	colors := make([]lipgloss.Color, len(lanes))
	for i, l := range lanes {
		names[i] = l.Name
		colors[i] = m.Theme.Lane(i, len(lanes))
	}

	var blocks []widgets.TimelineBlock
	for _, b := range arr.Blocks() {
		blocks = append(blocks, widgets.TimelineBlock{
			Lane:     b.Lane,
			Start:    b.StartStep,
			Length:   b.LengthSteps,
			Name:     b.Name,
			Selected: hasSel && b.ID == sel.ID,
		})
	}

	playhead := -1
	if arr.Playing() {
		playhead = arr.Step()
	}

	sym := m.Theme.Symbols
	width := max(16, m.width-10)
	out := widgets.RenderTimeline(names, blocks, arr.Length(), width, playhead, widgets.TimelineStyle{
		Fill: sym.BlockFill, Selected: sym.BlockSelected, Empty: sym.LaneEmpty, Playhead: sym.Playhead,
		LaneColors: colors,
		Dim:        m.Theme.Muted(), Head: m.Theme.Success(), Cursor: m.Theme.Cursor(),
	})

	info := "no block selected"
	if hasSel {
		info = fmt.Sprintf("%s  lane:%d  start:%d  len:%d", sel.Name, sel.Lane+1, sel.StartStep, sel.LengthSteps)
	}
	return out + "\n\n" + info
}

func (m Model) promptView() string {
	style := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Accent()).
		Padding(0, 1)
	body := strings.TrimRight(m.prompt.Prompt, "\n") + "\n> " + m.input + "_"
	return style.Render(body) + "\n" + lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render("enter:ok  esc:cancel")
}
