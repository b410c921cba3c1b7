// Package session contains dashboard sessions and an interface of their store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/health"
)

var log = logrus.WithField("package", "session")

// ErrNotFound is returned when the session does not exist or has expired.
var ErrNotFound = errors.New("not found")

// Session is an authenticated browser session.
type Session struct {
	ID        string
	User      entities.User
	Tab       string
	ExpiresAt time.Time
}

// New returns a session of the user with a random id.
func New(u entities.User, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        NewID(),
		User:      u,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired ...
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Touch prolongs the session.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.ExpiresAt = now.Add(ttl)
}

// NewID returns a random session id.
func NewID() string {
	return uuid.New().String()
}

// IsValidID checks if id has the form of session ids.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store provides methods for persisting sessions.
type Store interface {
	health.Pinger

	// Get returns the session. Expired sessions are reported as ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Save creates or replaces the session.
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions expired at now and returns their count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RunSweeper removes expired sessions every interval until ctx is done.
func RunSweeper(ctx context.Context, s Store, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			n, err := s.DeleteExpired(ctx, now)
			if err != nil {
				log.WithError(err).Error("failed to delete expired sessions")
				continue
			}

			if n > 0 {
				log.WithField("count", n).Debug("expired sessions deleted")
			}
		}
	}
}
