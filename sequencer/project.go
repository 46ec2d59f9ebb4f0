package sequencer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tracklab/debug"
)

// DefaultProjectName is offered when saving a project
const DefaultProjectName = "Untitled Project"

// Project is a named, timestamped arrangement snapshot
type Project struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	SavedAt  time.Time `json:"savedAt"`
	Snapshot Snapshot  `json:"snapshot"`
}

// Projects is the list of saved projects, oldest first
type Projects struct {
	asker Asker

	mu       sync.RWMutex
	list     []Project
	onChange func()
}

// NewProjects creates an empty project list prompting through asker
func NewProjects(asker Asker) *Projects {
	return &Projects{asker: asker}
}

// SetOnChange registers a callback run after every save
func (p *Projects) SetOnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Save asks for a name and stores the arrangement's snapshot. Returns nil
// when the user cancels.
func (p *Projects) Save(ctx context.Context, a *Arrangement) (*Project, error) {
	if p.asker == nil {
		return nil, nil
	}
	name, ok := p.asker.AskString(ctx, "Project name:", DefaultProjectName)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proj := p.Add(name, a.Snapshot())
	return &proj, nil
}

// Add stores snap under name without prompting
func (p *Projects) Add(name string, snap Snapshot) Project {
	proj := Project{
		ID:       newID("proj_"),
		Name:     name,
		SavedAt:  time.Now(),
		Snapshot: snap.Clone(),
	}

	p.mu.Lock()
	p.list = append(p.list, proj)
	fn := p.onChange
	p.mu.Unlock()

	debug.Log("project", "saved %q (%d blocks)", proj.Name, len(proj.Snapshot.Blocks))
	if fn != nil {
		fn()
	}
	return proj
}

// Load lists the saved projects, asks for an index and restores it into a.
// Returns nil when the user cancels.
func (p *Projects) Load(ctx context.Context, a *Arrangement) (*Project, error) {
	list := p.List()
	if len(list) == 0 {
		return nil, fmt.Errorf("no saved projects: %w", ErrInvalidProjectIndex)
	}
	if p.asker == nil {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("Load which project?\n\n")
	for i, proj := range list {
		fmt.Fprintf(&b, "%d: %s\n", i, proj.Name)
	}

	idx, ok := p.asker.AskNumber(ctx, b.String())
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.LoadIndex(idx, a)
}

// LoadIndex restores project index into a
func (p *Projects) LoadIndex(index int, a *Arrangement) (*Project, error) {
	proj, err := p.Get(index)
	if err != nil {
		return nil, err
	}
	a.Restore(proj.Snapshot)
	debug.Log("project", "loaded %q", proj.Name)
	return &proj, nil
}

// Get returns the project at index
func (p *Projects) Get(index int) (Project, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.list) {
		return Project{}, fmt.Errorf("project %d: %w", index, ErrInvalidProjectIndex)
	}
	proj := p.list[index]
	proj.Snapshot = proj.Snapshot.Clone()
	return proj, nil
}

// List returns a copy of every project
func (p *Projects) List() []Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Project, len(p.list))
	for i, proj := range p.list {
		proj.Snapshot = proj.Snapshot.Clone()
		out[i] = proj
	}
	return out
}

// Len returns the number of saved projects
func (p *Projects) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.list)
}

func (p *Projects) replace(list []Project) {
	p.mu.Lock()
	p.list = append([]Project(nil), list...)
	p.mu.Unlock()
}
