package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"timed-quiz/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (Postgres, SQLite, files).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, slug string) (domain.Quiz, error)
}

// loadTimeout bounds one shared load from the backing store.
const loadTimeout = 30 * time.Second

// QuizRepository caches quiz documents in Redis and falls back to a loader on cache miss.
// Documents are stored as: SET quiz:{slug}:document {json}
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, slug string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, slug); ok {
		return quiz, nil
	}

	// shared by every caller waiting on slug: load on a detached context, let each caller
	// stop waiting on its own ctx
	ch := r.sf.DoChan(slug, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(loadCtx, slug); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(loadCtx, slug)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz: %w", err)
		}
		// best-effort: a failed write only costs a reload next time
		if err := r.client.Set(loadCtx, r.documentKey(slug), data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache quiz %s: %v", slug, err)
		}
		return quiz, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.Quiz{}, res.Err
		}
		return res.Val.(domain.Quiz), nil
	case <-ctx.Done():
		return domain.Quiz{}, ctx.Err()
	}
}

// Invalidate drops the cached document so the next read goes to the loader.
func (r *QuizRepository) Invalidate(ctx context.Context, slug string) error {
	return r.client.Del(ctx, r.documentKey(slug)).Err()
}

func (r *QuizRepository) cached(ctx context.Context, slug string) (domain.Quiz, bool) {
	data, err := r.client.Get(ctx, r.documentKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached quiz %s: %v", slug, err)
		}
		return domain.Quiz{}, false
	}
	quiz, err := domain.ParseQuiz(data)
	if err != nil {
		log.Printf("discard cached quiz %s: %v", slug, err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizRepository) documentKey(slug string) string {
	return "quiz:" + slug + ":document"
}

// ttlWithJitter returns 0 (no expiry) when no ttl is configured.
func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
