package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"timed-quiz/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, slug string) (domain.Quiz, error)
}

// PlayRegistry tracks which plays are live for a quiz (in-memory, Redis, etc).
type PlayRegistry interface {
	Register(ctx context.Context, slug, playID string) error
	Unregister(ctx context.Context, slug, playID string) error
	Active(ctx context.Context, slug string) (int, error)
}

// DefaultHeartbeat is how often an open play re-registers itself.
const DefaultHeartbeat = time.Minute

// QuizService hosts quiz documents and hands out players for remote front-ends.
type QuizService struct {
	quizzes   QuizRepository
	plays     PlayRegistry
	opts      PlayerOptions
	heartbeat time.Duration
	newID     func() string
}

// ServiceOption tunes a QuizService.
type ServiceOption func(*QuizService)

// WithHeartbeat sets the re-registration period of open plays. It must stay below the
// registry's expiry; zero or less turns the heartbeat off.
func WithHeartbeat(d time.Duration) ServiceOption {
	return func(s *QuizService) { s.heartbeat = d }
}

func NewQuizService(quizzes QuizRepository, plays PlayRegistry, opts PlayerOptions, options ...ServiceOption) *QuizService {
	s := &QuizService{
		quizzes:   quizzes,
		plays:     plays,
		opts:      opts,
		heartbeat: DefaultHeartbeat,
		newID:     uuid.NewString,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Document returns the quiz served at the fixed endpoint and under /quizzes/{slug}.
func (s *QuizService) Document(ctx context.Context, slug string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, slug)
}

// ActivePlays reports how many players are currently registered for slug.
func (s *QuizService) ActivePlays(ctx context.Context, slug string) (int, error) {
	return s.plays.Active(ctx, slug)
}

// Play is one registered player. Close must be called once the front-end goes away.
type Play struct {
	ID     string
	Slug   string
	Player *Player

	service *QuizService
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// OpenPlay creates a player whose quiz comes from the repository. The player is not running
// yet; the caller drives it with Player.Run.
func (s *QuizService) OpenPlay(ctx context.Context, slug string) (*Play, error) {
	loader := LoaderFunc(func(ctx context.Context) (domain.Quiz, error) {
		return s.quizzes.GetQuiz(ctx, slug)
	})
	play := &Play{
		ID:      s.newID(),
		Slug:    slug,
		Player:  NewPlayer(loader, s.opts),
		service: s,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if err := s.plays.Register(ctx, slug, play.ID); err != nil {
		return nil, err
	}
	if s.heartbeat > 0 {
		go play.keepAlive(s.heartbeat)
	} else {
		close(play.stopped)
	}
	return play, nil
}

// keepAlive re-registers the play until Close so expiring registries keep counting it.
func (p *Play) keepAlive(every time.Duration) {
	defer close(p.stopped)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if err := p.service.plays.Register(context.Background(), p.Slug, p.ID); err != nil {
				log.Printf("refresh play %s: %v", p.ID, err)
			}
		}
	}
}

// Close stops the heartbeat and unregisters the play. Calling it more than once is safe.
func (p *Play) Close(ctx context.Context) {
	p.once.Do(func() { close(p.stop) })
	// a refresh racing with Unregister would put the play back
	<-p.stopped
	if err := p.service.plays.Unregister(ctx, p.Slug, p.ID); err != nil {
		log.Printf("unregister play %s: %v", p.ID, err)
	}
}
