// Package archive scans the pages directory and reports writing history.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"daypage/internal/pages"
)

// Entry summarizes one day's page.
type Entry struct {
	Day   time.Time
	Words int
	Path  string
}

// Scan reads the pages directory and returns one entry per page file,
// sorted by day ascending. Word counts come from each page's body, never
// the recorded frontmatter value, so hand-edited pages stay accurate.
// Files that are not date-named pages, or whose frontmatter is broken, are
// skipped so one bad file cannot block the whole archive. A missing
// directory yields an empty archive.
func Scan(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pages dir: %w", err)
	}

	var entries []Entry
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		day, ok := pages.DayFromFilename(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		count, err := pages.CountBodyWords(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Day: day, Words: count, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day.Before(entries[j].Day)
	})
	return entries, nil
}

// Streak returns the current run of consecutive days with a page, counting
// back from today. A day with no page yet does not break the run until it is
// over: writing daily through yesterday still counts as a live streak this
// morning.
func Streak(entries []Entry, today time.Time) int {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.Day.Format(pages.DayFormat)] = true
	}

	day := today
	if !days[day.Format(pages.DayFormat)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(pages.DayFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// TotalWords sums the word counts across the archive.
func TotalWords(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Words
	}
	return total
}

// RecentCounts returns per-day word counts for the n days ending today,
// oldest first. Days without a page count as zero.
func RecentCounts(entries []Entry, today time.Time, n int) []float64 {
	byDay := make(map[string]int, len(entries))
	for _, e := range entries {
		byDay[e.Day.Format(pages.DayFormat)] = e.Words
	}

	out := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		out = append(out, float64(byDay[day.Format(pages.DayFormat)]))
	}
	return out
}
