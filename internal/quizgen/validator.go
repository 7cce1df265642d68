package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quizcraft/quizcraft/internal/llm"
	"github.com/quizcraft/quizcraft/internal/quiz"
)

// Validator checks a decoded quiz before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "schema", "structural".
	Name() string

	// Validate returns nil if the quiz passes. raw is the JSON the quiz
	// was decoded from.
	Validate(q *quiz.Quiz, raw json.RawMessage) *ValidationError
}

// SchemaValidator checks the reply JSON against QuizSchema.
type SchemaValidator struct{}

func (v *SchemaValidator) Name() string { return "schema" }

func (v *SchemaValidator) Validate(_ *quiz.Quiz, raw json.RawMessage) *ValidationError {
	err := llm.ValidateJSON(QuizSchema, raw)
	if err == nil {
		return nil
	}
	msg := err.Error()
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) && inv.Err != nil {
		msg = inv.Err.Error()
	}
	// jsonschema reports span several lines; the first one is enough.
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return &ValidationError{Validator: v.Name(), Message: msg}
}

// StructuralValidator checks the quiz invariants directly: at least one
// question, non-empty text, exactly four options and an in-range answer.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Quiz, _ json.RawMessage) *ValidationError {
	if len(q.Questions) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "quiz has no questions"}
	}
	for i, question := range q.Questions {
		n := i + 1
		if question.Question == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question %d has no text", n)}
		}
		if len(question.Options) != quiz.OptionCount {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d has %d options, want %d", n, len(question.Options), quiz.OptionCount),
			}
		}
		for j, opt := range question.Options {
			if strings.TrimSpace(opt) == "" {
				return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question %d option %d is empty", n, j+1)}
			}
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d correct answer %d is out of range", n, question.CorrectAnswer),
			}
		}
	}
	return nil
}
