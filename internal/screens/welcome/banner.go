package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

const bannerArt = `
  ██████  ██    ██ ██ ███████  ██████ ██████   █████  ███████ ████████
 ██    ██ ██    ██ ██    ███  ██      ██   ██ ██   ██ ██         ██
 ██    ██ ██    ██ ██   ███   ██      ██████  ███████ █████      ██
 ██ ▄▄ ██ ██    ██ ██  ███    ██      ██   ██ ██   ██ ██         ██
  ██████   ██████  ██ ███████  ██████ ██   ██ ██   ██ ██         ██
     ▀▀`

const bannerCompact = "Q U I Z C R A F T"

// RenderBanner returns the banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 74 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 74 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
