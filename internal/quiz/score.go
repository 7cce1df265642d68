package quiz

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Score counts the positions where the selected answer equals the question's
// correct answer. Missing or unanswered positions never count, and answers
// beyond the last question are ignored.
func Score(q *Quiz, answers []int) int {
	score := 0
	for i, question := range q.Questions {
		if i >= len(answers) {
			break
		}
		if answers[i] != Unanswered && answers[i] == question.CorrectAnswer {
			score++
		}
	}
	return score
}

// NewAttempt scores answers against q and returns a new attempt record.
// The answer slice is copied so later edits by the caller cannot leak in.
func NewAttempt(q *Quiz, answers []int, completedAt time.Time) Attempt {
	recorded := make([]int, len(answers))
	copy(recorded, answers)

	return Attempt{
		ID:          uuid.NewString(),
		QuizID:      q.ID,
		Answers:     recorded,
		Score:       Score(q, recorded),
		CompletedAt: completedAt.UTC(),
	}
}

// BestScore returns the maximum score across all attempts referencing
// quizID. ok is false when there are no such attempts.
func BestScore(attempts []Attempt, quizID string) (best int, ok bool) {
	for _, a := range attempts {
		if a.QuizID != quizID {
			continue
		}
		if !ok || a.Score > best {
			best = a.Score
			ok = true
		}
	}
	return best, ok
}

// Percent returns score/total as a rounded percentage. Zero total yields 0.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
