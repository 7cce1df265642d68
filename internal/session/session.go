package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

var (
	// ErrNoSelection is returned by Advance when the current question has
	// no answer yet.
	ErrNoSelection = errors.New("select an answer first")

	// ErrCompleted is returned by any transition attempted after scoring.
	ErrCompleted = errors.New("quiz already completed")

	// ErrNoQuestions is returned when advancing a run over an empty quiz.
	ErrNoQuestions = errors.New("quiz has no questions")
)

// Current returns the question being answered, or nil when completed.
func (r *Run) Current() *quiz.Question {
	if r.Phase != PhaseInProgress || r.Index >= len(r.Quiz.Questions) {
		return nil
	}
	return &r.Quiz.Questions[r.Index]
}

// Total returns the number of questions in the run.
func (r *Run) Total() int { return len(r.Quiz.Questions) }

// Selected returns the answer recorded for the current question, or
// quiz.Unanswered.
func (r *Run) Selected() int {
	if r.Index >= len(r.answers) {
		return quiz.Unanswered
	}
	return r.answers[r.Index]
}

// IsLast reports whether the current question is the final one.
func (r *Run) IsLast() bool { return r.Index == len(r.Quiz.Questions)-1 }

// Answered returns how many questions have a recorded answer.
func (r *Run) Answered() int {
	n := 0
	for _, a := range r.answers {
		if a != quiz.Unanswered {
			n++
		}
	}
	return n
}

// Answers returns a copy of the partial answers, index-aligned with the
// questions.
func (r *Run) Answers() []int {
	return append([]int(nil), r.answers...)
}

// Select records option i for the current question. Selecting again
// replaces the earlier choice.
func (r *Run) Select(i int) error {
	if r.Phase == PhaseCompleted {
		return ErrCompleted
	}
	q := r.Current()
	if q == nil {
		return ErrNoQuestions
	}
	if i < 0 || i >= len(q.Options) {
		return fmt.Errorf("option %d out of range", i)
	}
	r.answers[r.Index] = i
	return nil
}

// Advance moves to the next question. Advancing from the final question
// scores the run, appends the attempt and completes the run; done reports
// that transition. If the attempt cannot be stored the run stays on the
// final question.
func (r *Run) Advance(ctx context.Context) (done bool, err error) {
	if r.Phase == PhaseCompleted {
		return false, ErrCompleted
	}
	if len(r.Quiz.Questions) == 0 {
		return false, ErrNoQuestions
	}
	if r.Selected() == quiz.Unanswered {
		return false, ErrNoSelection
	}

	if !r.IsLast() {
		r.Index++
		return false, nil
	}

	attempt := quiz.NewAttempt(r.Quiz, r.answers, r.now())
	if r.attempts != nil {
		if err := r.attempts.Append(ctx, attempt); err != nil {
			return false, fmt.Errorf("save attempt: %w", err)
		}
	}
	r.Attempt = &attempt
	r.Phase = PhaseCompleted
	return true, nil
}

// Back moves to the previous question. It is a no-op on the first one.
func (r *Run) Back() error {
	if r.Phase == PhaseCompleted {
		return ErrCompleted
	}
	if r.Index > 0 {
		r.Index--
	}
	return nil
}

// Score returns the attempt's score once completed, or the running count
// of correct answers so far.
func (r *Run) Score() int {
	if r.Attempt != nil {
		return r.Attempt.Score
	}
	return quiz.Score(r.Quiz, r.answers)
}
