// Package status formats the session status line.
package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	belowTargetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	metTargetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// FormatCount renders a word count against the target. Counts below the
// target use the below-target color; reaching the target (equality included)
// switches to the met-target color.
func FormatCount(count, target int) string {
	text := fmt.Sprintf("%d", count)
	if count < target {
		return belowTargetStyle.Render(text)
	}
	return metTargetStyle.Render(text)
}

// FormatElapsed renders a duration as mm:ss with both fields zero-padded.
// Sub-second precision is truncated. The minutes field keeps counting past
// 59 instead of rolling into hours, so a long sitting reads 62:05 rather
// than 1:02:05.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Line composes the full status line for a session tick.
func Line(elapsed time.Duration, count, target int) string {
	return fmt.Sprintf("Words: %s   Time Elapsed: %s", FormatCount(count, target), FormatElapsed(elapsed))
}
