package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

type userRepo struct {
	drv *entsql.Driver
}

func (r *userRepo) Get(ctx context.Context) (*quiz.User, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("name", "created_at").
		From(entsql.Table("users")).
		Where(entsql.EQ("id", 1)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		u         quiz.User
		createdAt string
	)
	if err := rows.Scan(&u.Name, &createdAt); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u quiz.User) error {
	existing, err := r.Get(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("users").
		Columns("id", "name", "created_at").
		Values(1, u.Name, formatTime(u.CreatedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
