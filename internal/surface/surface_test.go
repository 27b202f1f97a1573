package surface

import (
	"fmt"
	"sync"
	"testing"
)

type recordingSurface struct {
	mu     sync.Mutex
	lines  []string
	clears int
}

func (r *recordingSurface) SetStatus(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recordingSurface) ClearStatus() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *recordingSurface) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...), r.clears
}

func TestRenderReachesAttachedSurface(t *testing.T) {
	b := NewBoard()
	s := &recordingSurface{}
	b.Attach("doc-1", s)

	b.Render("doc-1", "Words: 3   Time Elapsed: 00:01")
	b.Clear("doc-1")

	lines, clears := s.snapshot()
	if len(lines) != 1 || lines[0] != "Words: 3   Time Elapsed: 00:01" {
		t.Fatalf("unexpected lines: %v", lines)
	}
	if clears != 1 {
		t.Fatalf("expected 1 clear, got %d", clears)
	}
}

func TestRenderUnknownSurfaceIsDropped(t *testing.T) {
	b := NewBoard()
	b.Render("missing", "Words: 0   Time Elapsed: 00:00")
	b.Clear("missing")
}

func TestDetachStopsRendering(t *testing.T) {
	b := NewBoard()
	s := &recordingSurface{}
	b.Attach("doc-1", s)
	b.Detach("doc-1")

	b.Render("doc-1", "anything")
	b.Clear("doc-1")

	lines, clears := s.snapshot()
	if len(lines) != 0 || clears != 0 {
		t.Fatalf("detached surface still received output: %v, %d clears", lines, clears)
	}
}

func TestAttachReplacesSurface(t *testing.T) {
	b := NewBoard()
	old := &recordingSurface{}
	next := &recordingSurface{}
	b.Attach("doc-1", old)
	b.Attach("doc-1", next)

	b.Render("doc-1", "line")

	if lines, _ := old.snapshot(); len(lines) != 0 {
		t.Fatalf("replaced surface still received output: %v", lines)
	}
	if lines, _ := next.snapshot(); len(lines) != 1 {
		t.Fatalf("replacement surface missed output: %v", lines)
	}
}

func TestConcurrentRenderAndDetach(t *testing.T) {
	b := NewBoard()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("doc-%d", i)
		b.Attach(id, &recordingSurface{})
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Render(id, "line")
			}
		}(id)
		go func(id string) {
			defer wg.Done()
			b.Detach(id)
		}(id)
	}
	wg.Wait()
}
