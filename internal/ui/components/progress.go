package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

// ProgressBar shows how far through a quiz the user is.
type ProgressBar struct {
	Current int // 1-based position
	Total   int
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Percent returns the filled fraction in [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Total)
	return max(0, min(f, 1))
}

// View renders "Question N of M" followed by the bar and a percentage.
func (p ProgressBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fmt.Sprintf("Question %d of %d", p.Current, p.Total))
	percent := fmt.Sprintf("  %3d%%", int(p.Percent()*100))

	barWidth := p.Width - lipgloss.Width(label) - len(percent) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	return label + "  " + bar + lipgloss.NewStyle().Foreground(theme.TextDim).Render(percent)
}
