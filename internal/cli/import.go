package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"timed-quiz/internal/config"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/file"
	"timed-quiz/internal/infra/postgres"
	redisinfra "timed-quiz/internal/infra/redis"
	"timed-quiz/internal/infra/sqlite"
)

// NewImportCmd stores a YAML or JSON quiz file in the configured database.
func NewImportCmd(configPath *string) *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a quiz file and store it in Postgres or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, slug, args[0])
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "quiz slug (defaults to quiz.slug from config)")
	return cmd
}

func runImport(ctx context.Context, configPath, slug, path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if slug == "" {
		slug = cfg.Quiz.Slug
	}

	quiz, err := file.ReadQuiz(path)
	if err != nil {
		return err
	}

	if err := saveQuiz(ctx, cfg, slug, quiz); err != nil {
		return err
	}
	log.Printf("imported %q (%d questions) as %s", quiz.Title, quiz.QuestionCount(), slug)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		// the cache is only cleared here; it refills from the store on the next read
		repo := redisinfra.NewQuizRepository(client, nil, config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute))
		if err := repo.Invalidate(ctx, slug); err != nil {
			log.Printf("invalidate cached quiz %s: %v", slug, err)
		}
	}
	return nil
}

func saveQuiz(ctx context.Context, cfg config.Config, slug string, quiz domain.Quiz) error {
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		db := postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		return postgres.NewQuizWriter(db).SaveQuiz(ctx, slug, quiz)
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.SaveQuiz(ctx, slug, quiz)
	default:
		return fmt.Errorf("no quiz store configured: set postgres.url or sqlite.path")
	}
}
