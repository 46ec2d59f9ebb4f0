package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PromptRequest is a question waiting for the user to answer in the TUI
type PromptRequest struct {
	Prompt  string
	Default string
	Numeric bool
	reply   chan promptReply
}

type promptReply struct {
	value string
	ok    bool
}

// Answer replies to the request. ok=false cancels.
func (r PromptRequest) Answer(value string, ok bool) {
	select {
	case r.reply <- promptReply{value: value, ok: ok}:
	default:
	}
}

// Prompter implements sequencer.Asker by handing questions to the TUI
// and blocking until they are answered
type Prompter struct {
	reqs chan PromptRequest
}

func NewPrompter() *Prompter {
	return &Prompter{reqs: make(chan PromptRequest)}
}

// Requests returns pending questions
func (p *Prompter) Requests() <-chan PromptRequest {
	return p.reqs
}

func (p *Prompter) ask(ctx context.Context, req PromptRequest) (string, bool) {
	req.reply = make(chan promptReply, 1)
	select {
	case p.reqs <- req:
	case <-ctx.Done():
		return "", false
	}
	select {
	case r := <-req.reply:
		return r.value, r.ok
	case <-ctx.Done():
		return "", false
	}
}

func (p *Prompter) AskString(ctx context.Context, prompt, def string) (string, bool) {
	return p.ask(ctx, PromptRequest{Prompt: prompt, Default: def})
}

// AskNumber returns -1 for input that is not a number, so callers report
// it as an invalid index rather than a cancel
func (p *Prompter) AskNumber(ctx context.Context, prompt string) (int, bool) {
	v, ok := p.ask(ctx, PromptRequest{Prompt: prompt, Numeric: true})
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return -1, true
	}
	return n, true
}

// PromptMsg delivers a question to the model
type PromptMsg PromptRequest

func ListenForPrompts(p *Prompter) tea.Cmd {
	return func() tea.Msg {
		return PromptMsg(<-p.Requests())
	}
}
