package generate

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/screens/take"
	"github.com/quizcraft/quizcraft/internal/ui/components"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

const maxSubjectLength = 120

type settingsLoadedMsg struct {
	Settings quiz.Settings
	Err      error
}

type generatedMsg struct {
	Quiz *quiz.Quiz
	Err  error
}

// GenerateScreen asks for a subject and generates a quiz for it. Only one
// generation runs at a time; input is ignored while it is in flight.
type GenerateScreen struct {
	deps       screen.Deps
	input      components.TextInput
	spinner    spinner.Model
	settings   quiz.Settings
	generating bool
	errMsg     string
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)
var _ screen.BackGuard = (*GenerateScreen)(nil)

// New creates a new GenerateScreen.
func New(deps screen.Deps) *GenerateScreen {
	return &GenerateScreen{
		deps:     deps,
		input:    components.NewTextInput("Subject", "e.g. Photosynthesis, World War II, Fractions", false, maxSubjectLength),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
		settings: quiz.DefaultSettings(),
	}
}

func (s *GenerateScreen) Init() tea.Cmd {
	repo := s.deps.Settings
	return tea.Batch(
		s.input.Focus(),
		func() tea.Msg {
			st, err := repo.Get(context.Background())
			return settingsLoadedMsg{Settings: st, Err: err}
		},
	)
}

func (s *GenerateScreen) Title() string {
	return "New Quiz"
}

// Generating reports whether a generation is in flight.
func (s *GenerateScreen) Generating() bool {
	return s.generating
}

// CanGoBack implements screen.BackGuard.
func (s *GenerateScreen) CanGoBack() bool {
	return !s.generating
}

func (s *GenerateScreen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.settings = msg.Settings
		return s, nil

	case generatedMsg:
		s.generating = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, s.input.Focus()
		}
		next := take.New(s.deps, msg.Quiz)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case spinner.TickMsg:
		if !s.generating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.generating {
			return s, nil
		}
		if msg.String() == "enter" {
			return s, s.submit()
		}
	}

	if s.generating {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *GenerateScreen) submit() tea.Cmd {
	subject := strings.TrimSpace(s.input.Value())
	if subject == "" {
		s.errMsg = "Please enter a subject."
		return nil
	}
	s.errMsg = ""
	s.generating = true
	s.input.Blur()

	deps := s.deps
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		st, err := deps.Settings.Get(ctx)
		if err != nil {
			return generatedMsg{Err: fmt.Errorf("load settings: %w", err)}
		}
		q, err := deps.Generator.Generate(ctx, subject, st)
		return generatedMsg{Quiz: q, Err: err}
	})
}

func (s *GenerateScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("What do you want to be quizzed on?"))

	using := fmt.Sprintf("%d questions · %s difficulty · %s", quiz.QuestionCount, s.settings.Difficulty, s.settings.AISource.DisplayName())
	if s.settings.Model != "" {
		using += fmt.Sprintf(" (%s)", s.settings.Model)
	}
	sections = append(sections, theme.Subtitle.Width(cw).Render(using))
	sections = append(sections, components.Card(s.input.View(), cw))

	switch {
	case s.generating:
		sections = append(sections, s.spinner.View()+" "+theme.Hint.Render("Generating your quiz. This can take a minute on local models..."))
	case s.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.errMsg)))
	default:
		sections = append(sections, theme.Hint.Render("Press Enter to generate"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
