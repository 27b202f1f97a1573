// Package surface routes status lines to document surfaces.
package surface

import "sync"

// Surface is one document view's status area.
type Surface interface {
	SetStatus(line string)
	ClearStatus()
}

// Board tracks the surfaces currently able to display status. Renders
// addressed to a surface that is gone are dropped: a timer firing while its
// surface closes is an expected race, not a fault.
type Board struct {
	mu       sync.Mutex
	surfaces map[string]Surface
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{surfaces: make(map[string]Surface)}
}

// Attach registers a surface under the given ID, replacing any previous one.
func (b *Board) Attach(id string, s Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.surfaces[id] = s
}

// Detach removes the surface for the given ID. Unknown IDs are ignored.
func (b *Board) Detach(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.surfaces, id)
}

// Render writes a status line to the identified surface, if it is attached.
func (b *Board) Render(id, line string) {
	b.mu.Lock()
	s, ok := b.surfaces[id]
	b.mu.Unlock()
	if !ok {
		return
	}
	s.SetStatus(line)
}

// Clear resets the identified surface's status area, if it is attached.
func (b *Board) Clear(id string) {
	b.mu.Lock()
	s, ok := b.surfaces[id]
	b.mu.Unlock()
	if !ok {
		return
	}
	s.ClearStatus()
}
