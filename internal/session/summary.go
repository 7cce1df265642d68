package session

import (
	"time"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

// Review is one question's line on the results screen.
type Review struct {
	Question *quiz.Question
	Selected int
	Correct  bool
}

// Summary holds the data displayed on the results screen.
type Summary struct {
	Score   int
	Total   int
	Percent int
	Elapsed time.Duration
	Reviews []Review
}

// BuildSummary creates a Summary from a run. It is meaningful once the run
// is completed but works on partial runs too.
func BuildSummary(r *Run) *Summary {
	total := len(r.Quiz.Questions)
	score := r.Score()

	reviews := make([]Review, 0, total)
	for i := range r.Quiz.Questions {
		q := &r.Quiz.Questions[i]
		sel := r.answers[i]
		reviews = append(reviews, Review{
			Question: q,
			Selected: sel,
			Correct:  sel != quiz.Unanswered && sel == q.CorrectAnswer,
		})
	}

	return &Summary{
		Score:   score,
		Total:   total,
		Percent: quiz.Percent(score, total),
		Elapsed: r.Elapsed().Round(time.Second),
		Reviews: reviews,
	}
}
