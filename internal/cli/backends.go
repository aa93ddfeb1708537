package cli

import (
	"context"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/file"
	"timed-quiz/internal/infra/memory"
	pgloader "timed-quiz/internal/infra/postgres"
	"timed-quiz/internal/infra/sqlite"
	"timed-quiz/internal/quizdata"
)

// backends holds the connections a command opened from config.
type backends struct {
	loader memory.QuizLoader
	pool   *pgxpool.Pool
	sqlite *sqlite.Store
	redis  *redis.Client
}

// openBackends picks the quiz source by precedence: Postgres, SQLite, a directory of quiz
// files, and finally the embedded default quiz.
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.pool = pool
		b.loader = pgloader.NewQuizLoader(pool)
		log.Printf("quiz source: postgres")
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sqlite = store
		b.loader = store
		log.Printf("quiz source: sqlite %s", cfg.SQLite.Path)
	case cfg.Quiz.Dir != "":
		b.loader = file.NewQuizLoader(cfg.Quiz.Dir)
		log.Printf("quiz source: directory %s", cfg.Quiz.Dir)
	default:
		b.loader = memory.NewStaticQuizLoader(quizdata.Quizzes())
		log.Printf("quiz source: built-in quiz %q", quizdata.DefaultSlug)
	}
	return b, nil
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.sqlite != nil {
		if err := b.sqlite.Close(); err != nil {
			log.Printf("close sqlite: %v", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
}
