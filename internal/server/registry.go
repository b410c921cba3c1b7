package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ugsbrasil/sharetrack/internal/dashboard"
	mm "github.com/ugsbrasil/sharetrack/internal/middleware"
	"github.com/ugsbrasil/sharetrack/internal/session"
)

// entry is a dashboard of a browser session. mu serialises the session's requests.
type entry struct {
	mu        sync.Mutex
	d         *dashboard.Dashboard
	lastSeen  time.Time
	persisted bool
}

// acquire returns the locked dashboard entry of the session, restoring it from the store when needed.
// Every acquire must be followed by release.
func (s *server) acquire(ctx context.Context, id string) *entry {
	s.mu.Lock()
	now := s.now()
	s.purge(now)

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{
			d: dashboard.New(s.g, s.opts...),
		}
		s.sessions[id] = e
	}
	e.lastSeen = now
	s.mu.Unlock()

	e.mu.Lock()
	if !ok {
		s.restore(ctx, id, e)
	}

	return e
}

// release persists the authenticated session, or removes it after logout, and unlocks the entry.
func (s *server) release(ctx context.Context, id string, e *entry) {
	defer e.mu.Unlock()

	st := e.d.State()
	if st.User == nil {
		if !e.persisted {
			return
		}

		if err := s.store.Delete(ctx, id); err != nil {
			log.WithError(err).Error("failed to delete session")
			return
		}
		e.persisted = false

		return
	}

	v := session.New(*st.User, s.now(), s.ttl)
	v.ID = id
	v.Tab = string(st.Tab)

	if err := s.store.Save(ctx, v); err != nil {
		log.WithError(err).Error("failed to save session")
		return
	}
	e.persisted = true
}

func (s *server) restore(ctx context.Context, id string, e *entry) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.WithError(err).Error("failed to get session")
		}
		return
	}

	u := v.User
	e.d.Restore(ctx, &u, dashboard.Tab(v.Tab))
	e.persisted = true
}

// rotate moves the entry under a new session id and issues the cookie.
func (s *server) rotate(w http.ResponseWriter, id string, e *entry) string {
	next := session.NewID()

	s.mu.Lock()
	delete(s.sessions, id)
	s.sessions[next] = e
	s.mu.Unlock()

	mm.SetSessionCookie(w, next, s.secure)

	return next
}

// purge drops dashboards idle longer than the session ttl. It is called with s.mu held.
func (s *server) purge(now time.Time) {
	if now.Sub(s.lastPurge) < purgeInterval {
		return
	}
	s.lastPurge = now

	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
