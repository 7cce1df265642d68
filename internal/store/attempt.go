package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

type attemptRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *attemptRepo) Append(ctx context.Context, a quiz.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("attempts").
		Columns("sequence", "id", "quiz_id", "answers", "score", "completed_at").
		Values(seqNum, a.ID, a.QuizID, string(answers), a.Score, formatTime(a.CompletedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) List(ctx context.Context) ([]quiz.Attempt, error) {
	return r.query(ctx, nil)
}

func (r *attemptRepo) ListByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error) {
	return r.query(ctx, entsql.EQ("quiz_id", quizID))
}

func (r *attemptRepo) query(ctx context.Context, where *entsql.Predicate) ([]quiz.Attempt, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "quiz_id", "answers", "score", "completed_at").
		From(entsql.Table("attempts")).
		OrderBy("sequence")
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []quiz.Attempt
	for rows.Next() {
		var (
			a                    quiz.Attempt
			answers, completedAt string
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &answers, &a.Score, &completedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
			return nil, fmt.Errorf("decode answers of attempt %s: %w", a.ID, err)
		}
		t, err := parseTime(completedAt)
		if err != nil {
			return nil, err
		}
		a.CompletedAt = t
		out = append(out, a)
	}
	return out, rows.Err()
}
