package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(m MultiChoice, keys ...tea.KeyPressMsg) MultiChoice {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func letter(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceShortcuts(t *testing.T) {
	opts := []string{"one", "two", "three", "four"}

	tests := []struct {
		name   string
		keys   []tea.KeyPressMsg
		cursor int
		chosen int
	}{
		{"nothing chosen", nil, 0, -1},
		{"letter", []tea.KeyPressMsg{letter('c')}, 2, 2},
		{"upper letter", []tea.KeyPressMsg{letter('B')}, 1, 1},
		{"digit", []tea.KeyPressMsg{letter('4')}, 3, 3},
		{"out of range letter", []tea.KeyPressMsg{letter('e')}, 0, -1},
		{"arrow then enter", []tea.KeyPressMsg{{Code: tea.KeyDown}, {Code: tea.KeyDown}, {Code: tea.KeyEnter}}, 2, 2},
		{"arrow only moves cursor", []tea.KeyPressMsg{{Code: tea.KeyDown}}, 1, -1},
		{"up clamps at top", []tea.KeyPressMsg{{Code: tea.KeyUp}, {Code: tea.KeySpace}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewMultiChoice("Q?", opts, -1), tt.keys...)
			if m.Cursor != tt.cursor || m.Chosen != tt.chosen {
				t.Fatalf("cursor=%d chosen=%d, want %d %d", m.Cursor, m.Chosen, tt.cursor, tt.chosen)
			}
		})
	}
}

func TestMultiChoiceRestoresPriorChoice(t *testing.T) {
	m := NewMultiChoice("Q?", []string{"a", "b", "c", "d"}, 3)
	if m.Cursor != 3 || m.Chosen != 3 {
		t.Fatalf("cursor=%d chosen=%d", m.Cursor, m.Chosen)
	}
	view := m.View()
	if !strings.Contains(view, "D)") || !strings.Contains(view, "●") {
		t.Errorf("view should mark the chosen option:\n%s", view)
	}
}

func TestProgressBarPercent(t *testing.T) {
	tests := []struct {
		current, total int
		want           float64
	}{
		{1, 5, 0.2},
		{5, 5, 1},
		{7, 5, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar(tt.current, tt.total, 60).Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
	if view := NewProgressBar(2, 5, 60).View(); !strings.Contains(view, "Question 2 of 5") || !strings.Contains(view, "40%") {
		t.Errorf("unexpected progress view %q", view)
	}
}

func TestContentWidth(t *testing.T) {
	if got := ContentWidth(200); got != 72 {
		t.Errorf("ContentWidth(200) = %d, want 72", got)
	}
	if got := ContentWidth(60); got != 54 {
		t.Errorf("ContentWidth(60) = %d, want 54", got)
	}
	if got := ContentWidth(10); got != 20 {
		t.Errorf("ContentWidth(10) = %d, want 20", got)
	}
}
