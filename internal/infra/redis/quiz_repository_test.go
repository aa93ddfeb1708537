package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"default": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	_, err = repo.GetQuiz(context.Background(), "default")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls.Load())
	}
	if !mr.Exists("quiz:default:document") {
		t.Fatalf("expected document key to be set")
	}
	if ttl := mr.TTL("quiz:default:document"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	quiz, err := repo.GetQuiz(context.Background(), "default")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls.Load())
	}
	if quiz.Questions[0].Options[1].Description != "4" || !quiz.Questions[0].Options[1].IsCorrect {
		t.Fatalf("cached quiz lost option data: %+v", quiz)
	}

	if err := repo.Invalidate(context.Background(), "default"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetQuiz(context.Background(), "default")
	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls.Load())
	}
}

func TestQuizRepositoryDiscardsCorruptEntries(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("quiz:default:document", `{"title":`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"default": sampleQuiz()}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "default")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if quiz.Title != "Arithmetic" || loader.calls.Load() != 1 {
		t.Fatalf("expected fallback to loader, got %+v (calls=%d)", quiz, loader.calls.Load())
	}
}

func TestQuizRepositoryLoadOutlivesCanceledCaller(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &gatedLoader{quiz: sampleQuiz(), started: make(chan struct{}), release: make(chan struct{})}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.GetQuiz(firstCtx, "default")
		firstErr <- err
	}()
	<-loader.started

	secondErr := make(chan error, 1)
	go func() {
		_, err := repo.GetQuiz(context.Background(), "default")
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller canceled, got %v", err)
	}

	close(loader.release)
	select {
	case err := <-secondErr:
		if err != nil {
			t.Fatalf("second caller failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("second caller never returned")
	}
	if !mr.Exists("quiz:default:document") {
		t.Fatalf("expected the shared load to fill the cache")
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected one shared load, got %d", loader.calls.Load())
	}
}

type gatedLoader struct {
	quiz    domain.Quiz
	calls   atomic.Int32
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (l *gatedLoader) LoadQuiz(ctx context.Context, _ string) (domain.Quiz, error) {
	l.calls.Add(1)
	l.once.Do(func() { close(l.started) })
	select {
	case <-l.release:
		return l.quiz, nil
	case <-ctx.Done():
		return domain.Quiz{}, ctx.Err()
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadQuiz(ctx context.Context, slug string) (domain.Quiz, error) {
	l.calls.Add(1)
	return l.QuizLoader.LoadQuiz(ctx, slug)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Title: "Arithmetic",
		Questions: []domain.Question{
			{
				Description: "What is 2 + 2?",
				Options: []domain.Option{
					{Description: "3"},
					{Description: "4", IsCorrect: true},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
