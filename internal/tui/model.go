// Package tui provides the Bubble Tea writing interface.
package tui

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"daypage/internal/archive"
	"daypage/internal/config"
	"daypage/internal/pages"
	"daypage/internal/session"
	"daypage/internal/surface"
	"daypage/internal/words"
)

const autosaveInterval = 30 * time.Second

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

type sessionStartedMsg struct{}

type sessionEndedMsg struct{}

type sessionErrMsg struct {
	err error
}

type autosaveMsg struct{}

// Model implements the Bubble Tea writing UI. It starts in setup mode when
// no pages directory is configured yet, and switches to the writing view
// once a directory is chosen.
type Model struct {
	settings   config.Settings
	configPath string
	registry   *session.Registry
	board      *surface.Board
	clock      session.Clock
	program    *tea.Program

	surfaceID string
	today     time.Time
	page      pages.Page
	editor    textarea.Model
	wordCount atomic.Int64

	setupMode  bool
	setupInput textinput.Model
	setupErr   string

	started      bool
	dirty        bool
	statusLine   string
	saveNote     string
	saveErr      string
	sessionErr   string
	streak       int
	todayExisted bool

	width  int
	height int
}

// NewModel constructs a writing UI model. When settings carries no pages
// directory the model starts in setup mode and the page argument is ignored.
func NewModel(settings config.Settings, configPath string, page pages.Page, registry *session.Registry, board *surface.Board, clock session.Clock) *Model {
	if clock == nil {
		clock = session.SystemClock{}
	}

	editor := textarea.New()
	editor.Placeholder = "Start writing..."
	editor.Prompt = ""
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = false

	setupInput := textinput.New()
	setupInput.Prompt = "Pages directory: "
	setupInput.Placeholder = config.DefaultPagesDir()
	setupInput.Cursor.SetMode(cursor.CursorBlink)

	m := &Model{
		settings:   settings,
		configPath: configPath,
		registry:   registry,
		board:      board,
		clock:      clock,
		surfaceID:  uuid.New().String(),
		today:      clock.Now(),
		editor:     editor,
		setupInput: setupInput,
		setupMode:  settings.Dir == "",
	}
	if !m.setupMode {
		m.page = page
		m.editor.SetValue(page.Body)
		m.refreshWordCount()
		m.loadStreak()
	}
	return m
}

// SetProgram attaches the running program so session renders can be sent
// into its message loop. It must be called before Run.
func (m *Model) SetProgram(program *tea.Program) {
	m.program = program
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.setupMode {
		return tea.Batch(m.setupInput.Focus(), m.autosaveTick())
	}
	return tea.Batch(m.editor.Focus(), m.beginSessionCmd(), m.autosaveTick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case statusMsg:
		m.statusLine = msg.line
		return m, nil
	case statusClearMsg:
		m.statusLine = ""
		return m, nil
	case sessionStartedMsg:
		m.started = true
		return m, nil
	case sessionErrMsg:
		m.sessionErr = msg.err.Error()
		return m, nil
	case sessionEndedMsg:
		return m, tea.Quit
	case autosaveMsg:
		if !m.setupMode && m.dirty {
			m.savePage()
		}
		return m, m.autosaveTick()
	case tea.KeyMsg:
		if m.setupMode {
			return m.updateSetup(msg)
		}
		return m.updateWriting(msg)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.setupMode {
		return m.renderSetup()
	}

	header := padLine(m.renderHeader(), m.width)
	body := m.editor.View()
	status := padLine(m.statusLine, m.width)
	footer := padLine(m.renderFooter(), m.width)
	return strings.Join([]string{header, body, status, footer}, "\n")
}

func (m *Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.completeSetup()
	}
	var cmd tea.Cmd
	m.setupInput, cmd = m.setupInput.Update(msg)
	return m, cmd
}

func (m *Model) updateWriting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		// Best effort: never block quitting on a failed save.
		m.savePage()
		return m, m.endSessionCmd()
	case tea.KeyEsc:
		if !m.savePage() {
			return m, nil
		}
		return m, m.endSessionCmd()
	case tea.KeyCtrlS:
		if m.savePage() {
			m.saveNote = "saved " + m.clock.Now().Format("15:04:05")
		}
		return m, nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.dirty = true
		m.saveNote = ""
		m.wordCount.Store(int64(words.Count(after)))
	}
	return m, cmd
}

func (m *Model) completeSetup() (tea.Model, tea.Cmd) {
	dir := strings.TrimSpace(m.setupInput.Value())
	if dir == "" {
		dir = config.DefaultPagesDir()
	}
	dir = config.ExpandPath(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.setupErr = fmt.Sprintf("failed to create directory: %v", err)
		return m, nil
	}
	if err := config.SaveDir(m.configPath, dir); err != nil {
		m.setupErr = err.Error()
		return m, nil
	}
	page, err := pages.LoadDay(dir, m.today)
	if err != nil {
		m.setupErr = err.Error()
		return m, nil
	}

	m.settings.Dir = dir
	m.page = page
	m.editor.SetValue(page.Body)
	m.refreshWordCount()
	m.loadStreak()
	m.setupMode = false
	m.setupErr = ""
	m.updateLayout()
	return m, tea.Batch(m.editor.Focus(), m.beginSessionCmd())
}

// beginSessionCmd attaches this view's surface and starts its session. Both
// happen off the update loop so the session's first render cannot deadlock
// against it.
func (m *Model) beginSessionCmd() tea.Cmd {
	return func() tea.Msg {
		if m.program == nil {
			return sessionErrMsg{err: fmt.Errorf("no program attached to surface")}
		}
		m.board.Attach(m.surfaceID, programSurface{send: m.program.Send})
		_, err := m.registry.Begin(m.surfaceID, session.Config{
			WordTarget: m.settings.Target,
			Interval:   m.settings.Interval(),
		}, func() int {
			return int(m.wordCount.Load())
		})
		if err != nil {
			return sessionErrMsg{err: err}
		}
		return sessionStartedMsg{}
	}
}

// endSessionCmd tears the session down off the update loop, then detaches
// the surface. The registry clears the status area before this returns.
func (m *Model) endSessionCmd() tea.Cmd {
	return func() tea.Msg {
		m.registry.End(m.surfaceID)
		m.board.Detach(m.surfaceID)
		return sessionEndedMsg{}
	}
}

func (m *Model) autosaveTick() tea.Cmd {
	return tea.Tick(autosaveInterval, func(time.Time) tea.Msg {
		return autosaveMsg{}
	})
}

func (m *Model) savePage() bool {
	m.page.Body = m.editor.Value()
	if err := m.page.Save(); err != nil {
		m.saveErr = err.Error()
		return false
	}
	m.saveErr = ""
	m.dirty = false
	if !m.todayExisted {
		m.todayExisted = true
		m.streak++
	}
	return true
}

func (m *Model) refreshWordCount() {
	m.wordCount.Store(int64(words.Count(m.editor.Value())))
}

func (m *Model) loadStreak() {
	entries, err := archive.Scan(m.settings.Dir)
	if err != nil {
		logErrf("failed to scan archive: %v\n", err)
		return
	}
	today := m.today.Format(pages.DayFormat)
	m.todayExisted = false
	for _, e := range entries {
		if e.Day.Format(pages.DayFormat) == today {
			m.todayExisted = true
			break
		}
	}
	m.streak = archive.Streak(entries, m.today)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.editor.SetWidth(m.width)
	m.editor.SetHeight(maxInt(1, m.height-3))
	promptWidth := lipgloss.Width(m.setupInput.Prompt)
	m.setupInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) renderHeader() string {
	header := m.today.Format("Monday, 02 Jan 2006")
	if m.streak > 1 {
		header += fmt.Sprintf("  ·  day %d", m.streak)
	}
	return headerStyle.Render(truncateLine(header, m.width))
}

func (m *Model) renderFooter() string {
	if m.saveErr != "" {
		return errorStyle.Render(truncateLine("save failed: "+m.saveErr, m.width))
	}
	if m.sessionErr != "" {
		return errorStyle.Render(truncateLine(m.sessionErr, m.width))
	}
	help := "ctrl+s: save  esc: save & quit"
	if m.saveNote != "" {
		return noteStyle.Render(truncateLine(m.saveNote+"  "+help, m.width))
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderSetup() string {
	body := []string{
		titleStyle.Render("Where should your daily pages live?"),
		"",
		m.setupInput.View(),
		headerStyle.Render("enter: confirm  esc: quit"),
	}
	if m.setupErr != "" {
		body = append(body, errorStyle.Render(m.setupErr))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
