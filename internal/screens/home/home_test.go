package home

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/router"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/screens/generate"
	"github.com/quizcraft/quizcraft/internal/screens/take"
	"github.com/quizcraft/quizcraft/internal/store"
)

func openTestDeps(t *testing.T) screen.Deps {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return screen.Deps{
		Users:    s.UserRepo(),
		Settings: s.SettingsRepo(),
		Quizzes:  s.QuizRepo(),
		Attempts: s.AttemptRepo(),
	}
}

func seed(t *testing.T, deps screen.Deps, quizzes int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, deps.Users.Create(ctx, quiz.User{Name: "Ada", CreatedAt: time.Now().UTC()}))
	for i := 1; i <= quizzes; i++ {
		require.NoError(t, deps.Quizzes.Append(ctx, quiz.Quiz{
			ID:      fmt.Sprintf("quiz-%d", i),
			Subject: fmt.Sprintf("Subject %d", i),
			Questions: []quiz.Question{
				{ID: fmt.Sprintf("q-%d", i), Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
			},
			CreatedAt: time.Date(2026, 4, i, 12, 0, 0, 0, time.UTC),
			AISource:  quiz.SourceOllama,
		}))
	}
}

func loaded(t *testing.T, h *HomeScreen) tea.Cmd {
	t.Helper()
	_, cmd := h.Update(h.Init()())
	require.True(t, h.loaded)
	return cmd
}

var (
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func TestHomeLoadsRecentNewestFirst(t *testing.T) {
	deps := openTestDeps(t)
	seed(t, deps, 8)
	ctx := context.Background()
	require.NoError(t, deps.Attempts.Append(ctx, quiz.Attempt{ID: "a1", QuizID: "quiz-8", Answers: []int{0}, Score: 1, CompletedAt: time.Now().UTC()}))

	h := New(deps)
	status := loaded(t, h)

	require.Len(t, h.recent, RecentCount)
	assert.Equal(t, "Subject 8", h.recent[0].Subject)
	assert.Equal(t, "Subject 3", h.recent[RecentCount-1].Subject)
	assert.Equal(t, 1, h.stats["quiz-8"].BestScore)

	require.NotNil(t, status)
	assert.Equal(t, screen.StatusMsg("Ada · Ollama (local)"), status())

	view := h.View(100, 40)
	assert.Contains(t, view, "Welcome back, Ada!")
	assert.Contains(t, view, "best 1/1")
	assert.Contains(t, view, "not taken")
}

func TestHomeNewQuizPushesGenerate(t *testing.T) {
	deps := openTestDeps(t)
	seed(t, deps, 0)
	h := New(deps)
	loaded(t, h)

	_, cmd := h.Update(enter)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*generate.GenerateScreen)
	assert.True(t, ok, "expected generate screen, got %T", push.Screen)
}

func TestHomeRecentQuizPushesTake(t *testing.T) {
	deps := openTestDeps(t)
	seed(t, deps, 2)
	h := New(deps)
	loaded(t, h)

	// Four actions, then the separator rows are skipped.
	for range 4 {
		h.Update(down)
	}
	_, cmd := h.Update(enter)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	ts, ok := push.Screen.(*take.TakeScreen)
	require.True(t, ok, "expected take screen, got %T", push.Screen)
	assert.Equal(t, "Subject 2", ts.Title())
}

func TestHomeResumeReloads(t *testing.T) {
	deps := openTestDeps(t)
	seed(t, deps, 1)
	h := New(deps)
	loaded(t, h)
	require.Len(t, h.recent, 1)

	require.NoError(t, deps.Quizzes.Append(context.Background(), quiz.Quiz{ID: "new", Subject: "Fresh", CreatedAt: time.Now().UTC()}))
	h.Update(h.Resume()())
	require.Len(t, h.recent, 2)
	assert.Equal(t, "Fresh", h.recent[0].Subject)
}
