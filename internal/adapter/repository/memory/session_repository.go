package memory

import (
	"context"
	"sync"
	"time"

	"github.com/srgjo27/lesson_booking/internal/core/domain"
)

type entry struct {
	session  *domain.Session
	lastSeen time.Time
}

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = &entry{session: session, lastSeen: r.now()}
	return nil
}

// Get returns the session and marks it as recently used.
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// DeleteIdle drops every session not used since before and returns their ids.
func (r *SessionRepository) DeleteIdle(ctx context.Context, before time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, e := range r.sessions {
		if e.lastSeen.Before(before) {
			delete(r.sessions, id)
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
