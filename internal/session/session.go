// Package session manages timed writing sessions bound to document surfaces.
//
// A session owns a start time and a recurring tick. Each tick recomputes the
// live word count and elapsed time and pushes a fresh status line to the
// session's surface. Sessions are created and torn down through a Registry,
// which holds at most one live session per surface and keeps teardown
// idempotent.
package session

import (
	"sync"
	"time"

	"daypage/internal/status"
)

// Defaults applied when a Config field is unset or invalid.
const (
	DefaultWordTarget = 750
	DefaultInterval   = time.Second
)

// Clock abstracts time to keep session behavior deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// WordCounter reports the current word count of the bound document.
type WordCounter func() int

// Renderer receives status output for a surface. Calls are serialized with
// session teardown, so implementations must return promptly rather than
// block.
type Renderer interface {
	Render(surfaceID, line string)
	Clear(surfaceID string)
}

// Config contains runtime options for a session.
type Config struct {
	WordTarget int
	Interval   time.Duration
}

func (config Config) withDefaults() Config {
	if config.WordTarget <= 0 {
		config.WordTarget = DefaultWordTarget
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return config
}

// Session is one timed writing session bound to a single surface. The start
// time is fixed at creation and never changes. Sessions are created by
// Registry.Begin and torn down by Registry.End; there is no other path.
type Session struct {
	id        string
	surfaceID string
	config    Config
	counter   WordCounter
	startedAt time.Time
	registry  *Registry

	stopCh   chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	ended bool
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// SurfaceID returns the identifier of the bound surface.
func (s *Session) SurfaceID() string {
	return s.surfaceID
}

// StartedAt returns the instant the session began.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Config returns the session's options with defaults applied.
func (s *Session) Config() Config {
	return s.config
}

func (s *Session) run() {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one status update. It bails out before doing any work unless the
// session is still registered and live, so a firing that races teardown is
// dropped instead of rendering into a closed surface. Holding the session
// lock across the render is what makes End total: once End returns, no
// further render for this session can happen.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || !s.registry.owns(s) {
		return
	}

	elapsed := s.registry.clock.Now().Sub(s.startedAt)
	line := status.Line(elapsed, s.counter(), s.config.WordTarget)
	s.registry.renderer.Render(s.surfaceID, line)
}

func (s *Session) stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
