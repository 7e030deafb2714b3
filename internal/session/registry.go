package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Closer is a form session that owns timers which must be stopped when the
// session ends.
type Closer interface {
	Close()
}

type entry[S Closer] struct {
	session  S
	lastSeen time.Time
}

// Registry holds live form sessions keyed by a random id. Sessions idle for
// longer than ttl are closed by Sweep.
type Registry[S Closer] struct {
	mu    sync.Mutex
	items map[string]*entry[S]
	ttl   time.Duration
	now   func() time.Time
	name  string
}

func NewRegistry[S Closer](name string, ttl time.Duration) *Registry[S] {
	return &Registry[S]{
		items: make(map[string]*entry[S]),
		ttl:   ttl,
		now:   time.Now,
		name:  name,
	}
}

func (r *Registry[S]) Add(s S) string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = &entry[S]{session: s, lastSeen: r.now()}
	return id
}

// Get returns the session and marks it as used.
func (r *Registry[S]) Get(id string) (S, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		var zero S
		return zero, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Remove closes and forgets the session.
func (r *Registry[S]) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.session.Close()
	return nil
}

func (r *Registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep closes every session idle for longer than the ttl and returns how
// many were removed.
func (r *Registry[S]) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []S
	for id, e := range r.items {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.session)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// CloseAll closes every session, used on shutdown.
func (r *Registry[S]) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*entry[S])
	r.mu.Unlock()

	for _, e := range items {
		e.session.Close()
	}
}

// RunSweeper sweeps on every tick until ctx is cancelled.
func (r *Registry[S]) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Printf("[SESSIONS] %s sweeper started (ttl=%s)", r.name, r.ttl)

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("[SESSIONS] %s: expired %d idle sessions", r.name, n)
			}
		}
	}
}
