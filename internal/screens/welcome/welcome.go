package welcome

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/store"
	"github.com/quizcraft/quizcraft/internal/ui/components"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

// maxNameLength bounds the onboarding name.
const maxNameLength = 40

type userCreatedMsg struct {
	User quiz.User
	Err  error
}

// WelcomeScreen is the onboarding screen. It asks for the user's name,
// creates the profile and hands over to the home screen.
type WelcomeScreen struct {
	users       store.UserRepo
	homeFactory func() screen.Screen
	input       components.TextInput
	saving      bool
	errMsg      string

	// now is swapped in tests.
	now func() time.Time
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by homeFactory once the user is created.
func New(users store.UserRepo, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		users:       users,
		homeFactory: homeFactory,
		input:       components.NewTextInput("", "Your name", false, maxNameLength),
		now:         time.Now,
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Get started"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Focus()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case userCreatedMsg:
		w.saving = false
		// A profile created elsewhere in the meantime is still a profile.
		if msg.Err != nil && !errors.Is(msg.Err, store.ErrUserExists) {
			w.errMsg = msg.Err.Error()
			return w, nil
		}
		home := w.homeFactory()
		return w, tea.Batch(
			func() tea.Msg { return screen.StatusMsg(msg.User.Name) },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} },
		)

	case tea.KeyPressMsg:
		if w.saving {
			return w, nil
		}
		if msg.String() == "enter" {
			return w, w.submit()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	name := strings.TrimSpace(w.input.Value())
	if name == "" {
		w.errMsg = "Please enter your name."
		return nil
	}
	w.errMsg = ""
	w.saving = true

	user := quiz.User{Name: name, CreatedAt: w.now().UTC()}
	users := w.users
	return func() tea.Msg {
		err := users.Create(context.Background(), user)
		return userCreatedMsg{User: user, Err: err}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Quizzes on any subject, generated by AI."))
	sections = append(sections, "")
	sections = append(sections, theme.Hint.Render("What should we call you?"))
	sections = append(sections, components.Card(w.input.View(), 44))

	if w.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(w.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
