package tui

import tea "github.com/charmbracelet/bubbletea"

// statusMsg carries a freshly rendered session status line into the UI.
type statusMsg struct {
	line string
}

// statusClearMsg empties the status area after a session ends.
type statusClearMsg struct{}

// programSurface bridges session renders into the running program's message
// loop. Render calls arrive on the session's tick goroutine; sending them as
// messages keeps all model mutation on the program's own goroutine.
type programSurface struct {
	send func(tea.Msg)
}

func (s programSurface) SetStatus(line string) {
	s.send(statusMsg{line: line})
}

func (s programSurface) ClearStatus() {
	s.send(statusClearMsg{})
}
