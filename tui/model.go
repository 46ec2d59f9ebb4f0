package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tracklab/debug"
	"tracklab/export"
	"tracklab/midi"
	"tracklab/scale"
	"tracklab/sequencer"
	"tracklab/theme"
)

type view int

const (
	viewPlay view = iota
	viewArrange
)

type Model struct {
	Manager   *sequencer.Manager
	Prompter  *Prompter
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	Octave    int // export voicing

	ctx      context.Context
	view     view
	prompt   *PromptRequest
	input    string
	status   string
	libIdx   int
	lastHand scale.Hand
	lastSlot int
	width    int
	quitting bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// KeyPressMsg is a bank key played on a MIDI keyboard
type KeyPressMsg string

// statusMsg reports the outcome of a command that ran off the UI loop
type statusMsg string

func NewModel(ctx context.Context, manager *sequencer.Manager, prompter *Prompter, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Manager:   manager,
		Prompter:  prompter,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Octave:    4,
		ctx:       ctx,
		lastSlot:  -1,
		width:     80,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForKeys(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		return KeyPressMsg(<-deviceMgr.Keys())
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Manager), ListenForPrompts(m.Prompter)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr), ListenForKeys(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

// run executes fn off the UI loop so it can block on a prompt
func (m Model) run(fn func(ctx context.Context) string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return statusMsg(fn(ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			if err := m.Manager.Close(); err != nil {
				debug.Log("tui", "close: %v", err)
			}
			return m, tea.Quit
		case "tab":
			if m.view == viewPlay {
				m.view = viewArrange
			} else {
				m.view = viewPlay
			}
			return m, nil
		}
		if m.view == viewArrange {
			return m.updateArrange(msg.String())
		}
		return m.updatePlay(msg.String())

	case KeyPressMsg:
		m.playKey(string(msg))
		return m, ListenForKeys(m.DeviceMgr)

	case PromptMsg:
		req := PromptRequest(msg)
		m.prompt = &req
		m.input = req.Default
		return m, ListenForPrompts(m.Prompter)

	case statusMsg:
		if msg != "" {
			m.status = string(msg)
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		if msg.Type == midi.DeviceConnected {
			m.status = "keyboard connected: " + msg.ID
		} else {
			m.status = "keyboard disconnected: " + msg.ID
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := *m.prompt
	switch msg.Type {
	case tea.KeyEnter:
		req.Answer(m.input, true)
		m.prompt, m.input = nil, ""
	case tea.KeyEsc, tea.KeyCtrlC:
		req.Answer("", false)
		m.prompt, m.input = nil, ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		if !req.Numeric {
			m.input += " "
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if req.Numeric && (r < '0' || r > '9') && r != '-' {
				continue
			}
			m.input += string(r)
		}
	}
	return m, nil
}

// playKey routes a bank key to the manager and remembers the lit slot
func (m *Model) playKey(key string) bool {
	if !m.Manager.HandleKey(key) {
		return false
	}
	m.lastHand, m.lastSlot = scale.SlotForKey(strings.ToLower(key))
	return true
}

func (m Model) updatePlay(key string) (tea.Model, tea.Cmd) {
	mgr := m.Manager
	switch key {
	case " ", "space":
		if mgr.Recorder.Recording() {
			return m, m.run(func(ctx context.Context) string {
				p, err := mgr.StopRecording(ctx)
				switch {
				case err != nil:
					return err.Error()
				case p == nil:
					return "take discarded"
				}
				return fmt.Sprintf("saved pattern %q", p.Name)
			})
		}
		if err := mgr.StartRecording(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "recording"
		}

	case "backspace":
		mgr.Recorder.Clear()

	case "T":
		if mgr.Practicing() {
			mgr.StopPractice()
			m.status = "practice off"
		} else if err := mgr.StartPractice(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "practice on"
		}

	case "K":
		current := string(mgr.Key())
		return m, m.run(func(ctx context.Context) string {
			root, ok := m.Prompter.AskString(ctx, "Key (C, C#, D ... B):", current)
			if !ok {
				return ""
			}
			if err := mgr.SetKey(root); err != nil {
				return err.Error()
			}
			return "key " + string(mgr.Key())
		})

	case "up":
		if m.libIdx > 0 {
			m.libIdx--
		}
	case "down":
		if m.libIdx < mgr.Library.Len()-1 {
			m.libIdx++
		}

	case "enter":
		if _, err := mgr.PlayPattern(m.libIdx); err != nil {
			m.status = err.Error()
		}

	case "I":
		if b, err := mgr.ImportPattern(m.libIdx); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("placed %q at step %d", b.Name, b.StartStep)
		}

	case "X":
		if err := mgr.DeletePattern(m.libIdx); err != nil {
			m.status = err.Error()
		} else if m.libIdx > 0 && m.libIdx >= mgr.Library.Len() {
			m.libIdx--
		}

	default:
		m.playKey(key)
	}
	return m, nil
}

func (m Model) updateArrange(key string) (tea.Model, tea.Cmd) {
	arr := m.Manager.Arrangement
	mgr := m.Manager

	switch key {
	case " ", "space":
		if arr.Playing() {
			arr.Stop()
		} else {
			arr.Play()
		}

	case "left", "h":
		m.nudge(0, -1)
	case "right", "l":
		m.nudge(0, 1)
	case "shift+left", "H":
		m.nudge(0, -4)
	case "shift+right", "L":
		m.nudge(0, 4)
	case "up", "k":
		m.nudge(-1, 0)
	case "down", "j":
		m.nudge(1, 0)

	case "[":
		m.cycleSelection(-1)
	case "]":
		m.cycleSelection(1)
	case "esc":
		arr.Select("")

	case "d":
		arr.DuplicateSelected()
	case "x", "delete":
		arr.DeleteSelected()

	case "+", "=":
		arr.SetBPM(arr.BPM() + 5)
	case "-", "_":
		arr.SetBPM(max(5, arr.BPM()-5))

	case "n":
		arr.AddLane()

	case "i":
		return m, m.run(func(ctx context.Context) string {
			b, err := mgr.PromptImport(ctx)
			switch {
			case err != nil:
				return err.Error()
			case b == nil:
				return ""
			}
			return fmt.Sprintf("placed %q at step %d", b.Name, b.StartStep)
		})

	case "s":
		return m, m.run(func(ctx context.Context) string {
			p, err := mgr.SaveProject(ctx)
			switch {
			case err != nil:
				return err.Error()
			case p == nil:
				return ""
			}
			return fmt.Sprintf("saved project %q", p.Name)
		})

	case "o":
		return m, m.run(func(ctx context.Context) string {
			p, err := mgr.LoadProject(ctx)
			switch {
			case errors.Is(err, sequencer.ErrInvalidProjectIndex):
				return "invalid project: " + err.Error()
			case err != nil:
				return err.Error()
			case p == nil:
				return ""
			}
			return fmt.Sprintf("loaded project %q", p.Name)
		})

	case "E":
		octave := m.Octave
		return m, m.run(func(ctx context.Context) string {
			path, ok := m.Prompter.AskString(ctx, "Export MIDI to:", "arrangement.mid")
			if !ok || strings.TrimSpace(path) == "" {
				return ""
			}
			banks := mgr.Banks()
			opts := export.Options{Banks: &banks, Octave: octave}
			if err := export.ArrangementFile(path, arr.Snapshot(), mgr.Library, opts); err != nil {
				return err.Error()
			}
			return "exported " + path
		})
	}
	return m, nil
}

// nudge moves the selected block by lanes and steps
func (m *Model) nudge(dLane, dStep int) {
	arr := m.Manager.Arrangement
	sel, ok := arr.Selected()
	if !ok {
		return
	}
	if _, err := arr.Relocate(sel.ID, sel.Lane+dLane, sel.StartStep+dStep); err != nil {
		m.status = err.Error()
	}
}

// cycleSelection selects the next or previous block ordered by lane then
// start step
func (m *Model) cycleSelection(dir int) {
	arr := m.Manager.Arrangement
	blocks := orderedBlocks(arr.Blocks())
	if len(blocks) == 0 {
		return
	}
	cur := -1
	if sel, ok := arr.Selected(); ok {
		for i, b := range blocks {
			if b.ID == sel.ID {
				cur = i
			}
		}
	}
	next := 0
	if cur >= 0 {
		next = (cur + dir + len(blocks)) % len(blocks)
	} else if dir < 0 {
		next = len(blocks) - 1
	}
	arr.Select(blocks[next].ID)
}

func orderedBlocks(blocks []sequencer.Block) []sequencer.Block {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Lane != blocks[j].Lane {
			return blocks[i].Lane < blocks[j].Lane
		}
		return blocks[i].StartStep < blocks[j].StartStep
	})
	return blocks
}
