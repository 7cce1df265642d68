package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/screens/take"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

type historyLoadedMsg struct {
	Entries []quiz.HistoryEntry
	Err     error
}

// HistoryScreen lists every quiz, newest first, with attempts, best and
// last score. Enter retakes the selected quiz.
type HistoryScreen struct {
	deps     screen.Deps
	entries  []quiz.HistoryEntry
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.Resumer = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screen.Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads stats after a retake.
func (s *HistoryScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()

		quizzes, err := deps.Quizzes.List(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		attempts, err := deps.Attempts.List(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Entries: quiz.History(quizzes, attempts)}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Retake"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.entries = msg.Entries
		if s.selected >= len(s.entries) {
			s.selected = max(len(s.entries)-1, 0)
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.entries) {
				q := s.entries[s.selected].Quiz
				next := take.New(s.deps, &q)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Generate one from the home screen!")
	}

	// Keep the selected row visible.
	visible := max(height-2, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.entries))

	var b strings.Builder
	b.WriteString("\n")

	for i := start; i < end; i++ {
		e := s.entries[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		score := "not taken yet"
		if e.Stats.Attempted() {
			plural := "s"
			if e.Stats.Attempts == 1 {
				plural = ""
			}
			score = fmt.Sprintf("%d attempt%s  best %d/%d (%d%%)  last %d/%d",
				e.Stats.Attempts, plural,
				e.Stats.BestScore, e.Stats.Total, quiz.Percent(e.Stats.BestScore, e.Stats.Total),
				e.Stats.LastScore, e.Stats.Total)
		}

		line := fmt.Sprintf("%s%-28s  %s  %s",
			prefix, truncate(e.Quiz.Subject, 28), e.Quiz.CreatedAt.Local().Format("Jan 02, 2006"), score)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
