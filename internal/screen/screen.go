package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/quizcraft/quizcraft/internal/quizgen"
	"github.com/quizcraft/quizcraft/internal/store"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is an optional interface for screens that reload their data when
// they become active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Deps carries the repositories and services screens read and write.
type Deps struct {
	Users     store.UserRepo
	Settings  store.SettingsRepo
	Quizzes   store.QuizRepo
	Attempts  store.AttemptRepo
	Generator quizgen.Generator
}

// BackGuard is an optional interface for screens that must not be left
// with Esc while work is in flight.
type BackGuard interface {
	CanGoBack() bool
}

// StatusMsg updates the status text on the right of the header.
type StatusMsg string
