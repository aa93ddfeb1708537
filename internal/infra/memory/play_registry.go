package memory

import (
	"context"
	"sync"
)

// PlayRegistry is an in-memory implementation of app.PlayRegistry.
type PlayRegistry struct {
	mu    sync.RWMutex
	plays map[string]map[string]struct{}
}

func NewPlayRegistry() *PlayRegistry {
	return &PlayRegistry{
		plays: make(map[string]map[string]struct{}),
	}
}

func (r *PlayRegistry) Register(_ context.Context, slug, playID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids, ok := r.plays[slug]
	if !ok {
		ids = make(map[string]struct{})
		r.plays[slug] = ids
	}
	ids[playID] = struct{}{}
	return nil
}

func (r *PlayRegistry) Unregister(_ context.Context, slug, playID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids, ok := r.plays[slug]
	if !ok {
		return nil
	}
	delete(ids, playID)
	if len(ids) == 0 {
		delete(r.plays, slug)
	}
	return nil
}

func (r *PlayRegistry) Active(_ context.Context, slug string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plays[slug]), nil
}
