package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"daypage/internal/pages"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(pages.DayFormat, value)
	if err != nil {
		t.Fatalf("bad day %q: %v", value, err)
	}
	return d
}

func writePage(t *testing.T, dir, date, body string) {
	t.Helper()
	page := pages.New(dir, day(t, date))
	page.Body = body
	if err := page.Save(); err != nil {
		t.Fatalf("save page %s: %v", date, err)
	}
}

func TestScanReadsPagesSorted(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "2025-06-02", "two words")
	writePage(t, dir, "2025-06-01", "one")
	writePage(t, dir, "2025-06-03", "a b c")

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("not a page"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2025-06-04.md"), []byte("---\nunclosed\n"), 0o644); err != nil {
		t.Fatalf("write corrupt page: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "drafts"), 0o755); err != nil {
		t.Fatalf("make subdir: %v", err)
	}

	entries, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantDays := []string{"2025-06-01", "2025-06-02", "2025-06-03"}
	wantWords := []int{1, 2, 3}
	for i, e := range entries {
		if got := e.Day.Format(pages.DayFormat); got != wantDays[i] {
			t.Fatalf("entry %d day = %s, want %s", i, got, wantDays[i])
		}
		if e.Words != wantWords[i] {
			t.Fatalf("entry %d words = %d, want %d", i, e.Words, wantWords[i])
		}
	}
}

func TestScanCountsBodyNotRecordedCount(t *testing.T) {
	dir := t.TempDir()
	content := "---\ndate: 2025-06-01\nwords: 99\n---\n\none two three\n"
	if err := os.WriteFile(filepath.Join(dir, "2025-06-01.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	entries, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Words != 3 {
		t.Fatalf("words = %d, want 3 from the body", entries[0].Words)
	}
}

func TestScanMissingDirIsEmpty(t *testing.T) {
	entries, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty archive, got %d entries", len(entries))
	}
}

func TestStreak(t *testing.T) {
	today := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	entry := func(date string) Entry {
		return Entry{Day: day(t, date)}
	}

	tests := []struct {
		name    string
		entries []Entry
		want    int
	}{
		{"empty archive", nil, 0},
		{"today only", []Entry{entry("2025-06-10")}, 1},
		{"today and yesterday", []Entry{entry("2025-06-09"), entry("2025-06-10")}, 2},
		{"yesterday but not yet today", []Entry{entry("2025-06-08"), entry("2025-06-09")}, 2},
		{"broken two days ago", []Entry{entry("2025-06-08")}, 0},
		{"gap in the run", []Entry{entry("2025-06-06"), entry("2025-06-09"), entry("2025-06-10")}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.entries, today); got != tt.want {
				t.Fatalf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalWords(t *testing.T) {
	entries := []Entry{{Words: 100}, {Words: 250}, {Words: 0}}
	if got := TotalWords(entries); got != 350 {
		t.Fatalf("TotalWords = %d, want 350", got)
	}
}

func TestRecentCounts(t *testing.T) {
	today := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Day: day(t, "2025-06-08"), Words: 400},
		{Day: day(t, "2025-06-10"), Words: 812},
	}

	got := RecentCounts(entries, today, 3)
	want := []float64{400, 0, 812}
	if len(got) != len(want) {
		t.Fatalf("RecentCounts length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RecentCounts[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	entries := []Entry{
		{Day: day(t, "2025-06-01"), Words: 820},
		{Day: day(t, "2025-06-02"), Words: 312},
		{Day: day(t, "2025-06-03"), Words: 750},
	}

	lines := RenderTable(entries, 750)
	want := []string{
		"Date        Words  Target",
		"2025-06-03    750  met",
		"2025-06-02    312",
		"2025-06-01    820  met",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderTableEmptyArchive(t *testing.T) {
	lines := RenderTable(nil, 750)
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %q", lines)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty sparkline = %q", got)
	}
	if got := Sparkline([]float64{0, 0, 0}); got != "   " {
		t.Fatalf("all-zero sparkline = %q", got)
	}

	got := Sparkline([]float64{0, 450, 900})
	if len(got) != 3 {
		t.Fatalf("sparkline length = %d", len(got))
	}
	if got[0] != ' ' {
		t.Fatalf("zero day rendered as %q", got[0])
	}
	if got[2] != '@' {
		t.Fatalf("peak day rendered as %q", got[2])
	}

	if got := Sparkline([]float64{500, 500}); got != "@@" {
		t.Fatalf("flat sparkline = %q", got)
	}
}
