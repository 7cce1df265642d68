package take

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/session"
	"github.com/quizcraft/quizcraft/internal/ui/components"
	"github.com/quizcraft/quizcraft/internal/ui/theme"
)

func (s *TakeScreen) View(width, height int) string {
	if s.summary != nil {
		return s.renderResults(width, height)
	}
	return s.renderQuestion(width, height)
}

func (s *TakeScreen) renderQuestion(width, height int) string {
	cw := components.ContentWidth(width)
	if s.run.Current() == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This quiz has no questions."))
	}

	var sections []string
	sections = append(sections, components.NewProgressBar(s.run.Index+1, s.run.Total(), cw).View())
	sections = append(sections, components.Card(s.choice.View(), cw))

	nav := []string{}
	if s.run.Index > 0 {
		nav = append(nav, theme.ButtonInactive.Render("← Previous"))
	}
	next := "Next →"
	if s.run.IsLast() {
		next = "Finish"
	}
	nextStyle := theme.ButtonInactive
	if s.run.Selected() != quiz.Unanswered {
		nextStyle = theme.ButtonActive
	}
	nav = append(nav, nextStyle.Render(next))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Center, nav...))

	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func (s *TakeScreen) renderResults(width, height int) string {
	cw := components.ContentWidth(width)
	sum := s.summary

	var header []string
	header = append(header, theme.Title.Width(cw).Render("Quiz complete!"))

	scoreStyle := theme.Correct
	if sum.Percent < 50 {
		scoreStyle = theme.Incorrect
	}
	header = append(header, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(
		scoreStyle.Render(fmt.Sprintf("You scored %d/%d (%d%%)", sum.Score, sum.Total, sum.Percent))))

	if sum.Elapsed > 0 {
		header = append(header, theme.Subtitle.Width(cw).Render("Finished in "+formatElapsed(sum.Elapsed)))
	}

	if s.stats != nil && s.stats.Attempts > 1 {
		header = append(header, theme.Subtitle.Width(cw).Render(fmt.Sprintf(
			"Best %d/%d across %d attempts", s.stats.BestScore, s.stats.Total, s.stats.Attempts)))
	}

	top := strings.Join(header, "\n")
	used := lipgloss.Height(top) + 2

	var reviews []string
	for i := s.scroll; i < len(sum.Reviews); i++ {
		block := components.Card(renderReview(i, sum.Reviews[i], cw-4), cw)
		if used+lipgloss.Height(block) > height && len(reviews) > 0 {
			break
		}
		used += lipgloss.Height(block)
		reviews = append(reviews, block)
	}

	content := top + "\n\n" + strings.Join(reviews, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func renderReview(i int, r session.Review, width int) string {
	q := r.Question
	var b strings.Builder

	mark := theme.Correct.Render("✓")
	if !r.Correct {
		mark = theme.Incorrect.Render("✗")
	}
	b.WriteString(mark + " " + lipgloss.NewStyle().Bold(true).Width(width-2).Render(fmt.Sprintf("%d. %s", i+1, q.Question)))
	b.WriteString("\n")

	yours := "no answer"
	if r.Selected >= 0 && r.Selected < len(q.Options) {
		yours = fmt.Sprintf("%s) %s", components.OptionLabels[r.Selected], q.Options[r.Selected])
	}
	if r.Correct {
		b.WriteString(theme.Correct.Render("  Your answer: " + yours))
	} else {
		b.WriteString(theme.Incorrect.Render("  Your answer: " + yours))
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			b.WriteString("\n")
			b.WriteString(theme.Correct.Render(fmt.Sprintf("  Correct: %s) %s",
				components.OptionLabels[q.CorrectAnswer], q.Options[q.CorrectAnswer])))
		}
	}

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(width).Render("  " + q.Explanation))
	}
	return b.String()
}

// formatElapsed renders a duration as "42s" or "3m 05s".
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
}
