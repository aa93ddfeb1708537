package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"timed-quiz/internal/quizdata"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx,
				`INSERT INTO quizzes (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
				quizdata.DefaultSlug, string(quizdata.DefaultJSON()))
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quizdata.DefaultSlug)
			return err
		},
	)
}
