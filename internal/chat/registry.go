package chat

import (
	"errors"
	"sync"

	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Registry owns the live chat sessions.
type Registry struct {
	responder *dialogue.Responder
	sched     *Scheduler
	seq       Sequencer

	mu sync.RWMutex
	m  map[string]*Session
}

// NewRegistry creates an empty Registry. Sessions reply through responder
// and schedule their replies on sched.
func NewRegistry(responder *dialogue.Responder, sched *Scheduler) *Registry {
	return &Registry{responder: responder, sched: sched, m: make(map[string]*Session)}
}

// Create starts a new session seeded with the intro message.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.responder, r.sched, &r.seq)
	r.mu.Lock()
	r.m[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.m[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and forgets the session with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.m[id]
	delete(r.m, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// CloseAll closes every session, discarding pending replies.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.m))
	for _, s := range r.m {
		sessions = append(sessions, s)
	}
	r.m = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
