package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds the live sessions of the process, keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	onEvict  func(id string)
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Create registers a new session built by newFn, which receives the ID the
// session will be stored under.
func (r *Registry) Create(newFn func(id string) *Session) (string, *Session) {
	id := uuid.NewString()
	s := newFn(id)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// OnEvict registers fn to be called with the ID of every session Evict
// removes. Set it before the janitor starts.
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	r.onEvict = fn
	r.mu.Unlock()
}

// Evict drops sessions idle since before cutoff and returns how many were removed.
func (r *Registry) Evict(cutoff time.Time) int {
	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	onEvict := r.onEvict
	r.mu.Unlock()

	if onEvict != nil {
		for _, id := range evicted {
			onEvict(id)
		}
	}
	return len(evicted)
}

// RunJanitor evicts sessions idle for longer than ttl until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, ttl time.Duration) error {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			if n := r.Evict(now.Add(-ttl)); n > 0 {
				r.logger.Info("evicted idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
