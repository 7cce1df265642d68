package session

import (
	"context"
	"time"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

// AttemptAppender is the part of the attempt log a run writes to.
type AttemptAppender interface {
	Append(ctx context.Context, a quiz.Attempt) error
}

// Phase represents the current phase of a run.
type Phase int

const (
	PhaseInProgress Phase = iota // Answering questions
	PhaseCompleted               // Scored and persisted
)

func (p Phase) String() string {
	if p == PhaseCompleted {
		return "completed"
	}
	return "in-progress"
}

// Run tracks one pass through a quiz's questions. A Run is not safe for
// concurrent use; the TUI drives it from its update loop.
type Run struct {
	// Quiz is the quiz being taken.
	Quiz *quiz.Quiz

	// Index is the current question while in progress.
	Index int

	// Phase is the current phase.
	Phase Phase

	// Attempt is set once the run is completed.
	Attempt *quiz.Attempt

	// StartTime is when the run began.
	StartTime time.Time

	answers  []int
	attempts AttemptAppender
	now      func() time.Time
}

// NewRun starts a run over q. Completed attempts are appended to attempts.
func NewRun(q *quiz.Quiz, attempts AttemptAppender) *Run {
	answers := make([]int, len(q.Questions))
	for i := range answers {
		answers[i] = quiz.Unanswered
	}
	r := &Run{
		Quiz:     q,
		Phase:    PhaseInProgress,
		answers:  answers,
		attempts: attempts,
		now:      time.Now,
	}
	r.StartTime = r.now()
	return r
}

// Elapsed is the time from the start of the run to its completion, or to
// now while it is still in progress.
func (r *Run) Elapsed() time.Duration {
	end := r.now()
	if r.Attempt != nil {
		end = r.Attempt.CompletedAt
	}
	if end.Before(r.StartTime) {
		return 0
	}
	return end.Sub(r.StartTime)
}
