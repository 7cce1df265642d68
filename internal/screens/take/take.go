package take

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/session"
	"github.com/quizcraft/quizcraft/internal/ui/components"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
)

// statsLoadedMsg carries the quiz's attempt stats after completion.
type statsLoadedMsg struct {
	Stats quiz.Stats
	Err   error
}

// TakeScreen walks the user through a quiz and shows the results.
type TakeScreen struct {
	deps    screen.Deps
	quiz    *quiz.Quiz
	run     *session.Run
	choice  components.MultiChoice
	summary *session.Summary
	stats   *quiz.Stats
	scroll  int
	errMsg  string
}

var _ screen.Screen = (*TakeScreen)(nil)
var _ screen.KeyHintProvider = (*TakeScreen)(nil)

// New starts a fresh run over q.
func New(deps screen.Deps, q *quiz.Quiz) *TakeScreen {
	s := &TakeScreen{
		deps: deps,
		quiz: q,
		run:  session.NewRun(q, deps.Attempts),
	}
	s.syncChoice()
	return s
}

func (s *TakeScreen) Init() tea.Cmd {
	return nil
}

func (s *TakeScreen) Title() string {
	return s.quiz.Subject
}

// Run exposes the underlying run.
func (s *TakeScreen) Run() *session.Run {
	return s.run
}

func (s *TakeScreen) KeyHints() []layout.KeyHint {
	if s.summary != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "R", Description: "Retake"},
			{Key: "Esc", Description: "Done"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "Enter", Description: "Next"},
	}
	if s.run.Index > 0 {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit quiz"})
}

// syncChoice rebuilds the option selector for the current question.
func (s *TakeScreen) syncChoice() {
	q := s.run.Current()
	if q == nil {
		return
	}
	s.choice = components.NewMultiChoice(q.Question, q.Options, s.run.Selected())
}

func (s *TakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err == nil {
			s.stats = &msg.Stats
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.summary != nil {
			return s.handleResultsKey(msg)
		}
		return s.handleQuestionKey(msg)
	}
	return s, nil
}

func (s *TakeScreen) handleQuestionKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "p", "shift+tab":
		s.errMsg = ""
		if err := s.run.Back(); err == nil {
			s.syncChoice()
		}
		return s, nil

	case "enter", "right", "n", "tab":
		if msg.String() == "enter" && s.choice.Chosen == quiz.Unanswered {
			s.choice.Chosen = s.choice.Cursor
			s.run.Select(s.choice.Chosen)
		}
		return s, s.advance()
	}

	s.choice, _ = s.choice.Update(msg)
	if s.choice.Chosen != quiz.Unanswered && s.choice.Chosen != s.run.Selected() {
		if err := s.run.Select(s.choice.Chosen); err != nil {
			s.errMsg = err.Error()
		} else {
			s.errMsg = ""
		}
	}
	return s, nil
}

func (s *TakeScreen) advance() tea.Cmd {
	done, err := s.run.Advance(context.Background())
	if err != nil {
		if errors.Is(err, session.ErrNoSelection) {
			s.errMsg = "Choose an answer first."
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.errMsg = ""
	if !done {
		s.syncChoice()
		return nil
	}

	s.summary = session.BuildSummary(s.run)
	return s.loadStats()
}

func (s *TakeScreen) loadStats() tea.Cmd {
	attempts := s.deps.Attempts
	q := s.quiz
	return func() tea.Msg {
		list, err := attempts.ListByQuiz(context.Background(), q.ID)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		return statsLoadedMsg{Stats: quiz.StatsFor(q, list)}
	}
}

func (s *TakeScreen) handleResultsKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		if s.scroll < len(s.summary.Reviews)-1 {
			s.scroll++
		}
	case "r":
		next := New(s.deps, s.quiz)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "enter":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}
