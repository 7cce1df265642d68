package quizgen

import (
	"encoding/json"
	"testing"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

func validQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:      "q1",
		Subject: "Biology",
		Questions: []quiz.Question{
			{ID: "a", Question: "Q", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 3},
		},
	}
}

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *quiz.Quiz)
		wantErr bool
	}{
		{"valid", func(*quiz.Quiz) {}, false},
		{"no questions", func(q *quiz.Quiz) { q.Questions = nil }, true},
		{"empty text", func(q *quiz.Quiz) { q.Questions[0].Question = "" }, true},
		{"three options", func(q *quiz.Quiz) { q.Questions[0].Options = []string{"A", "B", "C"} }, true},
		{"five options", func(q *quiz.Quiz) { q.Questions[0].Options = append(q.Questions[0].Options, "E") }, true},
		{"blank option", func(q *quiz.Quiz) { q.Questions[0].Options[2] = "  " }, true},
		{"answer too high", func(q *quiz.Quiz) { q.Questions[0].CorrectAnswer = 4 }, true},
		{"answer missing", func(q *quiz.Quiz) { q.Questions[0].CorrectAnswer = quiz.Unanswered }, true},
	}
	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(q)
			err := v.Validate(q, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Validator != "structural" {
				t.Fatalf("validator = %q", err.Validator)
			}
		})
	}
}

func TestSchemaValidator(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", oneQuestion, false},
		{"no questions key", `{"items":[]}`, true},
		{"empty questions", `{"questions":[]}`, true},
		{"answer out of range", `{"questions":[{"question":"Q","options":["A","B","C","D"],"correctAnswer":7}]}`, true},
		{"answer as string", `{"questions":[{"question":"Q","options":["A","B","C","D"],"correctAnswer":"1"}]}`, true},
		{"two options", `{"questions":[{"question":"Q","options":["A","B"],"correctAnswer":1}]}`, true},
	}
	v := &SchemaValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(nil, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Validator != "schema" {
				t.Fatalf("validator = %q", err.Validator)
			}
		})
	}
}
