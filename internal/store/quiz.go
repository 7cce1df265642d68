package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

var quizColumns = []string{"id", "subject", "questions", "ai_source", "created_at"}

type quizRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *quizRepo) Append(ctx context.Context, q quiz.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("quizzes").
		Columns(append([]string{"sequence"}, quizColumns...)...).
		Values(seqNum, q.ID, q.Subject, string(questions), string(q.AISource), formatTime(q.CreatedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (r *quizRepo) List(ctx context.Context) ([]quiz.Quiz, error) {
	return r.query(ctx, func(s *entsql.Selector) {
		s.OrderBy("sequence")
	})
}

func (r *quizRepo) Get(ctx context.Context, id string) (*quiz.Quiz, error) {
	quizzes, err := r.query(ctx, func(s *entsql.Selector) {
		s.Where(entsql.EQ("id", id))
	})
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	return &quizzes[0], nil
}

func (r *quizRepo) Recent(ctx context.Context, n int) ([]quiz.Quiz, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.query(ctx, func(s *entsql.Selector) {
		s.OrderBy(entsql.Desc("sequence")).Limit(n)
	})
}

func (r *quizRepo) query(ctx context.Context, modify func(*entsql.Selector)) ([]quiz.Quiz, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(quizColumns...).
		From(entsql.Table("quizzes"))
	modify(sel)
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []quiz.Quiz
	for rows.Next() {
		var (
			q                         quiz.Quiz
			questions, src, createdAt string
		)
		if err := rows.Scan(&q.ID, &q.Subject, &questions, &src, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		if err := json.Unmarshal([]byte(questions), &q.Questions); err != nil {
			return nil, fmt.Errorf("decode questions of quiz %s: %w", q.ID, err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		q.AISource = quiz.AISource(src)
		q.CreatedAt = t
		out = append(out, q)
	}
	return out, rows.Err()
}
