package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionActive reports a begin for a surface that already has a live
// session. The caller must end the existing session before starting another.
var ErrSessionActive = errors.New("session already active for surface")

// Registry associates at most one live session with each surface. All
// session mutation funnels through Begin and End, and ticks consult the
// registry before doing work, so a tick racing teardown is dropped.
type Registry struct {
	clock    Clock
	renderer Renderer

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. The renderer must not be nil. A nil
// clock falls back to the system clock.
func NewRegistry(renderer Renderer, clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Registry{
		clock:    clock,
		renderer: renderer,
		sessions: make(map[string]*Session),
	}
}

// Begin starts a session for the surface and installs its recurring tick.
// It renders one status line immediately so the surface is never blank
// during the first interval. Begin fails with ErrSessionActive if the
// surface already has a live session; the existing session is untouched.
func (r *Registry) Begin(surfaceID string, config Config, counter WordCounter) (*Session, error) {
	if counter == nil {
		counter = func() int { return 0 }
	}

	s := &Session{
		id:        uuid.New().String(),
		surfaceID: surfaceID,
		config:    config.withDefaults(),
		counter:   counter,
		startedAt: r.clock.Now(),
		registry:  r,
		stopCh:    make(chan struct{}),
	}

	r.mu.Lock()
	if _, exists := r.sessions[surfaceID]; exists {
		r.mu.Unlock()
		return nil, ErrSessionActive
	}
	r.sessions[surfaceID] = s
	r.mu.Unlock()

	s.tick()
	go s.run()
	return s, nil
}

// End tears down the session for the surface: it cancels the recurring tick,
// marks the session ended, and clears the surface's status area. Ending a
// surface with no session is a no-op, so End is safe to call from multiple
// triggers. Once End returns, no further render for that session executes.
func (r *Registry) End(surfaceID string) {
	r.mu.Lock()
	s, ok := r.sessions[surfaceID]
	if ok {
		delete(r.sessions, surfaceID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	s.stop()

	// Taking the session lock here waits out any tick already in flight.
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()

	r.renderer.Clear(surfaceID)
}

// IsActive reports whether the surface has a live session.
func (r *Registry) IsActive(surfaceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[surfaceID]
	return ok
}

// Shutdown ends every live session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.End(id)
	}
}

func (r *Registry) owns(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[s.surfaceID] == s
}
