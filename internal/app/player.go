package app

import (
	"context"
	"log"
	"sync"
	"time"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/render"
	"timed-quiz/internal/session"
)

// QuizLoader fetches the quiz a player presents.
type QuizLoader interface {
	Load(ctx context.Context) (domain.Quiz, error)
}

// LoaderFunc adapts a function to QuizLoader.
type LoaderFunc func(ctx context.Context) (domain.Quiz, error)

func (f LoaderFunc) Load(ctx context.Context) (domain.Quiz, error) { return f(ctx) }

// PlayerOptions tunes a player. Duration is taken as given, zero included; Tick and Clock
// fall back to one second and the system clock.
type PlayerOptions struct {
	Duration int // seconds
	Tick     time.Duration
	Clock    Clock
}

type loadResult struct {
	quiz domain.Quiz
	err  error
}

// Player is the event loop of one quiz attempt. Run owns the session state; intents, timer
// ticks and the fetch result are all serialized through it, and every transition publishes a
// freshly rendered screen to subscribers.
type Player struct {
	loader  QuizLoader
	timer   *Timer
	intents chan Intent
	loaded  chan loadResult
	done    chan struct{}

	mu          sync.Mutex
	subscribers map[chan render.Screen]struct{}
	current     render.Screen
	stopped     bool

	// fields below are only touched by Run
	quiz       *domain.Quiz
	state      session.State
	loading    bool
	loadFailed bool
}

func NewPlayer(loader QuizLoader, opts PlayerOptions) *Player {
	return &Player{
		loader:      loader,
		timer:       NewTimer(opts.Clock, opts.Tick),
		intents:     make(chan Intent),
		loaded:      make(chan loadResult),
		done:        make(chan struct{}),
		subscribers: make(map[chan render.Screen]struct{}),
		current:     render.Loading(false),
		state:       session.New(opts.Duration),
	}
}

// Run loads the quiz and processes events until ctx is canceled. Subscriber channels are
// closed on return.
func (p *Player) Run(ctx context.Context) error {
	defer p.stop()

	p.startLoad(ctx)
	p.publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-p.loaded:
			p.loading = false
			if res.err != nil {
				log.Printf("fetch quiz: %v", res.err)
				p.loadFailed = true
			} else {
				quiz := res.quiz
				p.quiz = &quiz
				p.loadFailed = false
			}
		case in := <-p.intents:
			p.apply(ctx, in)
		case <-p.timer.C():
			p.state = p.state.Tick()
		}
		p.syncTimer()
		p.publish()
	}
}

// Dispatch hands an intent to the event loop. It blocks until the loop accepts it.
func (p *Player) Dispatch(ctx context.Context, in Intent) error {
	if err := in.Validate(); err != nil {
		return err
	}
	select {
	case p.intents <- in:
		return nil
	case <-p.done:
		return domain.ErrPlayerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Screen returns the most recently published screen.
func (p *Player) Screen() render.Screen {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe returns a channel of screens starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (p *Player) Subscribe() (<-chan render.Screen, func()) {
	ch := make(chan render.Screen, 8)

	p.mu.Lock()
	if p.stopped {
		ch <- p.current
		close(ch)
		p.mu.Unlock()
		return ch, func() {}
	}
	p.subscribers[ch] = struct{}{}
	ch <- p.current
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

func (p *Player) startLoad(ctx context.Context) {
	if p.loading || p.quiz != nil {
		return
	}
	p.loading = true
	go func() {
		quiz, err := p.loader.Load(ctx)
		select {
		case p.loaded <- loadResult{quiz: quiz, err: err}:
		case <-ctx.Done():
			// the player is gone; nothing to update
		}
	}()
}

func (p *Player) apply(ctx context.Context, in Intent) {
	if p.quiz == nil {
		if in.Action == ActionRetry && p.loadFailed {
			p.startLoad(ctx)
		}
		return
	}

	count := p.quiz.QuestionCount()
	switch in.Action {
	case ActionStart:
		p.state = p.state.Start()
	case ActionSelect:
		if in.Question >= count || !p.quiz.Questions[in.Question].HasOption(in.Option) {
			return
		}
		p.state = p.state.SelectAnswer(in.Question, in.Option)
	case ActionNext:
		p.state = p.state.Next(count)
	case ActionPrev:
		p.state = p.state.Prev()
	case ActionFinish:
		// users finish from the last question; timer expiry goes through Tick
		if p.state.IsLast(count) {
			p.state = p.state.Finish()
		}
	case ActionRestart:
		p.state = p.state.Restart()
	}
}

// syncTimer keeps the ticker armed exactly while the session is in progress. An in-progress
// session that is already out of time finishes here without waiting for a tick.
func (p *Player) syncTimer() {
	if p.state.Expired() {
		p.state = p.state.Finish()
	}
	if p.state.Phase() == session.PhaseInProgress {
		p.timer.Arm()
		return
	}
	p.timer.Disarm()
}

func (p *Player) publish() {
	var screen render.Screen
	if p.quiz == nil {
		screen = render.Loading(p.loadFailed && !p.loading)
	} else {
		screen = render.Render(*p.quiz, p.state)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = screen
	for ch := range p.subscribers {
		select {
		case ch <- screen:
		default:
			// drop the oldest frame so a slow reader still ends up on the latest screen
			select {
			case <-ch:
			default:
			}
			ch <- screen
		}
	}
}

func (p *Player) stop() {
	p.timer.Disarm()
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for ch := range p.subscribers {
		delete(p.subscribers, ch)
		close(ch)
	}
}
