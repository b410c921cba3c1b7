// Package memory is an in-process implementation of the session store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ugsbrasil/sharetrack/internal/session"
)

type store struct {
	mu  sync.RWMutex
	now func() time.Time

	sessions map[string]session.Session
}

// New returns an empty store. Sessions are lost on restart.
func New() session.Store {
	return &store{
		now:      time.Now,
		sessions: make(map[string]session.Session),
	}
}

// Name ...
func (*store) Name() string {
	return "sessions"
}

// Ping ...
func (*store) Ping(context.Context) error {
	return nil
}

func (s *store) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[id]
	if !ok || v.Expired(s.now()) {
		return nil, session.ErrNotFound
	}

	return &v, nil
}

func (s *store) Save(_ context.Context, v *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[v.ID] = *v

	return nil
}

func (s *store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

func (s *store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, v := range s.sessions {
		if v.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}

	return n, nil
}
