package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/screens/generate"
	"github.com/quizcraft/quizcraft/internal/screens/history"
	"github.com/quizcraft/quizcraft/internal/screens/settings"
	"github.com/quizcraft/quizcraft/internal/screens/take"
	"github.com/quizcraft/quizcraft/internal/ui/components"
	"github.com/quizcraft/quizcraft/internal/ui/layout"
	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

// RecentCount is the number of recent quizzes listed on the home screen.
const RecentCount = 6

type homeLoadedMsg struct {
	User     *quiz.User
	Settings quiz.Settings
	Recent   []quiz.Quiz
	Stats    map[string]quiz.Stats
	Err      error
}

// HomeScreen greets the user and links to every other screen.
type HomeScreen struct {
	deps     screen.Deps
	user     *quiz.User
	settings quiz.Settings
	recent   []quiz.Quiz
	stats    map[string]quiz.Stats
	menu     components.Menu
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the recent list after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) load() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()

		user, err := deps.Users.Get(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		st, err := deps.Settings.Get(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		recent, err := deps.Quizzes.Recent(ctx, RecentCount)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		attempts, err := deps.Attempts.List(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}

		stats := make(map[string]quiz.Stats, len(recent))
		for i := range recent {
			stats[recent[i].ID] = quiz.StatsFor(&recent[i], attempts)
		}
		return homeLoadedMsg{User: user, Settings: st, Recent: recent, Stats: stats}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.user = msg.User
		h.settings = msg.Settings
		h.recent = msg.Recent
		h.stats = msg.Stats

		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}

		if h.user != nil {
			status := fmt.Sprintf("%s · %s", h.user.Name, h.settings.AISource.DisplayName())
			return h, func() tea.Msg { return screen.StatusMsg(status) }
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	deps := h.deps
	items := []components.MenuItem{
		{Label: "New quiz", Action: func() tea.Cmd { return push(generate.New(deps)) }},
		{Label: "History", Action: func() tea.Cmd { return push(history.New(deps)) }},
		{Label: "Settings", Action: func() tea.Cmd { return push(settings.New(deps.Settings)) }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	if len(h.recent) == 0 {
		return items
	}

	items = append(items, components.MenuItem{Label: "", Disabled: true})
	items = append(items, components.MenuItem{Label: "Recent quizzes", Disabled: true})
	for i := range h.recent {
		q := h.recent[i]
		items = append(items, components.MenuItem{
			Label:  q.Subject,
			Detail: recentDetail(q, h.stats[q.ID]),
			Action: func() tea.Cmd { return push(take.New(deps, &q)) },
		})
	}
	return items
}

func recentDetail(q quiz.Quiz, st quiz.Stats) string {
	detail := q.CreatedAt.Local().Format("Jan 02 15:04")
	if st.Attempted() {
		detail += fmt.Sprintf(" · best %d/%d", st.BestScore, st.Total)
	} else {
		detail += " · not taken"
	}
	return detail
}

// KeyHints implements screen.KeyHintProvider.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if !h.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	var sections []string

	greeting := "Welcome!"
	if h.user != nil {
		greeting = fmt.Sprintf("Welcome back, %s!", h.user.Name)
	}
	sections = append(sections, theme.Title.Width(cw).Render(greeting))

	source := fmt.Sprintf("Generating with %s", h.settings.AISource.DisplayName())
	if h.settings.Model != "" {
		source += fmt.Sprintf(" (%s)", h.settings.Model)
	}
	source += fmt.Sprintf(" · %s difficulty", h.settings.Difficulty)
	sections = append(sections, theme.Subtitle.Width(cw).Render(source))

	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render("Error: "+h.errMsg))
	}

	sections = append(sections, components.Card(h.menu.View(), cw))

	if len(h.recent) == 0 && height > layout.CompactHeight {
		sections = append(sections, theme.Hint.Render("No quizzes yet. Pick \"New quiz\" to generate your first one."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
