package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

type settingsRepo struct {
	drv *entsql.Driver
}

func (r *settingsRepo) Get(ctx context.Context) (quiz.Settings, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("ai_source", "endpoint", "api_key", "model", "difficulty", "retries", "timeout_ms").
		From(entsql.Table("settings")).
		Where(entsql.EQ("id", 1)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return quiz.Settings{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return quiz.Settings{}, err
		}
		return quiz.DefaultSettings(), nil
	}

	var (
		s                  quiz.Settings
		source, difficulty string
		timeoutMs          int64
	)
	if err := rows.Scan(&source, &s.Endpoint, &s.APIKey, &s.Model, &difficulty, &s.Retries, &timeoutMs); err != nil {
		return quiz.Settings{}, fmt.Errorf("scan settings: %w", err)
	}
	s.AISource = quiz.AISource(source)
	s.Difficulty = quiz.Difficulty(difficulty)
	s.Timeout = time.Duration(timeoutMs) * time.Millisecond
	return s, nil
}

func (r *settingsRepo) Put(ctx context.Context, s quiz.Settings) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("settings").
		Columns("id", "ai_source", "endpoint", "api_key", "model", "difficulty", "retries", "timeout_ms", "updated_at").
		Values(1, string(s.AISource), s.Endpoint, s.APIKey, s.Model, string(s.Difficulty),
			s.Retries, s.Timeout.Milliseconds(), formatTime(time.Now())).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
