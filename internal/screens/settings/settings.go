package settings

import (
	"context"
	"fmt"
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

// Field identifies a focusable row of the form.
type Field int

const (
	FieldSource Field = iota
	FieldEndpoint
	FieldAPIKey
	FieldModel
	FieldDifficulty
	FieldRetries
	FieldTimeout
	FieldSave
	FieldCancel
	fieldCount
)

type settingsLoadedMsg struct {
	Settings quiz.Settings
	Err      error
}

type settingsSavedMsg struct {
	Err error
}

// timeoutChoices are the per-call limits offered by the form. Zero is off.
var timeoutChoices = []time.Duration{0, 30 * time.Second, time.Minute, 2 * time.Minute, 5 * time.Minute}

// SettingsScreen edits the persisted generation settings.
type SettingsScreen struct {
	repo       store.SettingsRepo
	source     quiz.AISource
	difficulty quiz.Difficulty
	retries    int
	timeout    time.Duration
	endpoint   components.TextInput
	apiKey     components.TextInput
	model      components.TextInput
	focus      Field
	loaded     bool
	saving     bool
	errMsg     string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a new SettingsScreen.
func New(repo store.SettingsRepo) *SettingsScreen {
	s := &SettingsScreen{
		repo:     repo,
		endpoint: components.NewTextInput("Endpoint", "http://localhost:11434", false, 200),
		apiKey:   components.NewTextInput("API key", "sk-...", true, 200),
		model:    components.NewTextInput("Model", "model name", false, 120),
	}
	s.apply(quiz.DefaultSettings())
	return s
}

func (s *SettingsScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		st, err := repo.Get(context.Background())
		return settingsLoadedMsg{Settings: st, Err: err}
	}
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Focus returns the focused field.
func (s *SettingsScreen) Focus() Field {
	return s.focus
}

// Settings returns the settings currently shown in the form.
func (s *SettingsScreen) Settings() quiz.Settings {
	return quiz.Settings{
		AISource:   s.source,
		Endpoint:   strings.TrimSpace(s.endpoint.Value()),
		APIKey:     strings.TrimSpace(s.apiKey.Value()),
		Model:      strings.TrimSpace(s.model.Value()),
		Difficulty: s.difficulty,
		Retries:    s.retries,
		Timeout:    s.timeout,
	}
}

func (s *SettingsScreen) apply(st quiz.Settings) {
	s.source = st.AISource
	s.difficulty = st.Difficulty
	s.retries = st.Retries
	s.timeout = st.Timeout
	s.endpoint.SetValue(st.Endpoint)
	s.apiKey.SetValue(st.APIKey)
	s.model.SetValue(st.Model)
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.apply(msg.Settings)
		return s, nil

	case settingsSavedMsg:
		s.saving = false
		if msg.Err != nil {
			s.errMsg = "Could not save settings: " + msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if s.saving {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	return s, s.updateInput(msg)
}

func (s *SettingsScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if s.focus == FieldCancel {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s.save()
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch s.focus {
		case FieldSource:
			s.cycleSource(delta)
			return nil
		case FieldDifficulty:
			s.cycleDifficulty(delta)
			return nil
		case FieldRetries:
			n := quiz.MaxRetries + 1
			s.retries = ((s.retries+delta)%n + n) % n
			return nil
		case FieldTimeout:
			s.cycleTimeout(delta)
			return nil
		case FieldSave, FieldCancel:
			if s.focus == FieldSave {
				return s.setFocus(FieldCancel)
			}
			return s.setFocus(FieldSave)
		}
	}
	return s.updateInput(msg)
}

func (s *SettingsScreen) setFocus(f Field) tea.Cmd {
	s.focus = f
	s.endpoint.Blur()
	s.apiKey.Blur()
	s.model.Blur()
	if in := s.input(f); in != nil {
		return in.Focus()
	}
	return nil
}

func (s *SettingsScreen) input(f Field) *components.TextInput {
	switch f {
	case FieldEndpoint:
		return &s.endpoint
	case FieldAPIKey:
		return &s.apiKey
	case FieldModel:
		return &s.model
	}
	return nil
}

func (s *SettingsScreen) updateInput(msg tea.Msg) tea.Cmd {
	in := s.input(s.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// cycleSource switches source and preselects that source's default model.
func (s *SettingsScreen) cycleSource(delta int) {
	idx := 0
	for i, src := range quiz.Sources {
		if src == s.source {
			idx = i
			break
		}
	}
	n := len(quiz.Sources)
	next := quiz.Sources[(idx+delta+n)%n]
	st := s.Settings().WithSource(next)
	s.source = st.AISource
	s.model.SetValue(st.Model)
}

func (s *SettingsScreen) cycleDifficulty(delta int) {
	idx := 1
	for i, d := range quiz.Difficulties {
		if d == s.difficulty {
			idx = i
			break
		}
	}
	n := len(quiz.Difficulties)
	s.difficulty = quiz.Difficulties[(idx+delta+n)%n]
}

// cycleTimeout steps through timeoutChoices. A stored value that is not
// one of them steps to the nearest larger choice, or off past the end.
func (s *SettingsScreen) cycleTimeout(delta int) {
	idx := -1
	for i, d := range timeoutChoices {
		if d == s.timeout {
			idx = i
			break
		}
	}
	n := len(timeoutChoices)
	if idx < 0 {
		idx = n
		for i, d := range timeoutChoices {
			if d > s.timeout {
				idx = i
				break
			}
		}
		if delta > 0 {
			delta--
		}
	}
	s.timeout = timeoutChoices[(idx+delta+n)%n]
}

func timeoutLabel(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}

func retriesLabel(n int) string {
	if n <= 0 {
		return "off"
	}
	return fmt.Sprint(n)
}

func (s *SettingsScreen) validate(st quiz.Settings) string {
	if st.AISource.IsLocal() && st.Endpoint == "" {
		return "Endpoint is required for a local model."
	}
	if st.Model == "" {
		return "Model is required."
	}
	return ""
}

func (s *SettingsScreen) save() tea.Cmd {
	st := s.Settings()
	if msg := s.validate(st); msg != "" {
		s.errMsg = msg
		return nil
	}
	s.errMsg = ""
	s.saving = true

	repo := s.repo
	return func() tea.Msg {
		return settingsSavedMsg{Err: repo.Put(context.Background(), st)}
	}
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	label := func(f Field, name string) string {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12)
		if s.focus == f {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		return style.Render(name)
	}
	choice := func(f Field, value string) string {
		if s.focus == f {
			return theme.Selected.Render("◂ " + value + " ▸")
		}
		return theme.Unselected.Render("  " + value)
	}

	rows := []string{
		label(FieldSource, "Source") + " " + choice(FieldSource, s.source.DisplayName()),
		s.endpoint.View(),
		s.apiKey.View(),
		s.model.View(),
		label(FieldDifficulty, "Difficulty") + " " + choice(FieldDifficulty, string(s.difficulty)),
		label(FieldRetries, "Retries") + " " + choice(FieldRetries, retriesLabel(s.retries)),
		label(FieldTimeout, "Timeout") + " " + choice(FieldTimeout, timeoutLabel(s.timeout)),
	}

	save := components.NewButton("Save")
	save.Focused = s.focus == FieldSave
	cancel := components.NewButton("Cancel")
	cancel.Focused = s.focus == FieldCancel
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, save.View(), "   ", cancel.View())

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("Quiz generation settings"))
	if !s.loaded {
		sections = append(sections, theme.Hint.Render("Loading..."))
	}
	sections = append(sections, components.Card(strings.Join(rows, "\n\n"), cw))
	sections = append(sections, buttons)

	switch {
	case s.errMsg != "":
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	case s.source.IsLocal():
		sections = append(sections, theme.Hint.Render(fmt.Sprintf("Ollama must be running at the endpoint with %q pulled.", s.model.Value())))
	default:
		sections = append(sections, theme.Hint.Render("The API key is stored locally in the quiz database."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
