// Package pages resolves, loads, and saves daily page files. Each day maps
// to one markdown file named by date, with YAML frontmatter carrying the
// page's metadata and the written text as the body.
package pages

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"daypage/internal/words"
)

// DayFormat is the date layout used for page filenames and metadata.
const DayFormat = "2006-01-02"

// Page is one day's file. Meta holds the frontmatter as decoded, so fields
// added by hand survive a save.
type Page struct {
	Path string
	Meta map[string]any
	Body string
}

// Filename returns the page filename for a day.
func Filename(day time.Time) string {
	return day.Format(DayFormat) + ".md"
}

// PathFor returns the page path for a day inside dir.
func PathFor(dir string, day time.Time) string {
	return filepath.Join(dir, Filename(day))
}

// DayFromFilename parses the day out of a page filename. It reports false
// for names that are not date-named markdown files.
func DayFromFilename(name string) (time.Time, bool) {
	base := strings.TrimSuffix(name, ".md")
	if base == name {
		return time.Time{}, false
	}
	day, err := time.Parse(DayFormat, base)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// New returns an empty page for a day, with the date stamped into its
// metadata.
func New(dir string, day time.Time) Page {
	return Page{
		Path: PathFor(dir, day),
		Meta: map[string]any{"date": day.Format(DayFormat)},
		Body: "",
	}
}

// LoadDay loads the page for a day inside dir, or returns a fresh page if
// none exists yet.
func LoadDay(dir string, day time.Time) (Page, error) {
	path := PathFor(dir, day)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return New(dir, day), nil
		}
		return Page{}, fmt.Errorf("failed to stat page: %w", err)
	}
	return Load(path)
}

// Load reads and parses an existing page file.
func Load(path string) (Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("failed to read page: %w", err)
	}
	meta, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse page %s: %w", filepath.Base(path), err)
	}
	// Unquoted dates decode as timestamps; keep the date key a plain string
	// so the file does not drift on resave.
	if d, ok := meta["date"].(time.Time); ok {
		meta["date"] = d.Format(DayFormat)
	}
	return Page{Path: path, Meta: meta, Body: body}, nil
}

// CountBodyWords counts the words in a page file's body. The frontmatter
// block is skipped without being decoded, so a recorded count that drifted
// out of date after a hand edit never shadows the body.
func CountBodyWords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := bufio.NewReader(f)
	first, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read page: %w", err)
	}
	if first != separator {
		rest, err := words.CountReader(r)
		if err != nil {
			return 0, fmt.Errorf("failed to read page: %w", err)
		}
		return words.Count(first) + rest, nil
	}
	// The closing separator cannot be the first line after the opening one;
	// splitFrontmatter reads the same structure.
	lines := 0
	for {
		line, lineErr := r.ReadString('\n')
		if line == separator && lines > 0 {
			break
		}
		lines++
		if lineErr == io.EOF {
			return 0, fmt.Errorf("failed to parse page %s: missing closing separator", filepath.Base(path))
		}
		if lineErr != nil {
			return 0, fmt.Errorf("failed to read page: %w", lineErr)
		}
	}
	count, err := words.CountReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read page: %w", err)
	}
	return count, nil
}

// Save writes the page to its path, recording the body's current word count
// in the frontmatter. The write goes through a temp file and rename so a
// crash never leaves a half-written page.
func (p *Page) Save() error {
	if p.Path == "" {
		return fmt.Errorf("page path is empty")
	}
	if p.Meta == nil {
		p.Meta = map[string]any{}
	}
	// Advisory for readers of the raw file; scans always recount the body.
	p.Meta["words"] = words.Count(p.Body)

	rendered, err := renderFrontmatter(p.Meta, p.Body)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create pages dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "page-*.md")
	if err != nil {
		return fmt.Errorf("failed to create temp page: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(rendered); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	if err := os.Rename(tmpPath, p.Path); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}
