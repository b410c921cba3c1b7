package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/session"
)

var ctx = context.Background()

func newStore(now time.Time) *store {
	s := New().(*store)
	s.now = func() time.Time { return now }

	return s
}

func TestStore_SaveGet(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newStore(now)

	v := session.New(entities.User{ID: 1, Username: "ana", Role: entities.EmployeeRole}, now, time.Hour)
	v.Tab = "posts"
	require.NoError(t, s.Save(ctx, v))

	// stored value is a copy
	v.Tab = "shares"

	got, err := s.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "posts", got.Tab)
	assert.Equal(t, "ana", got.User.Username)
	assert.Equal(t, now.Add(time.Hour), got.ExpiresAt)
}

func TestStore_Get_NotFound(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newStore(now)

	_, err := s.Get(ctx, "unknown")
	assert.True(t, errors.Is(err, session.ErrNotFound))

	expired := session.New(entities.User{ID: 1}, now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, s.Save(ctx, expired))

	_, err = s.Get(ctx, expired.ID)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newStore(now)

	v := session.New(entities.User{ID: 1}, now, time.Hour)
	require.NoError(t, s.Save(ctx, v))
	require.NoError(t, s.Delete(ctx, v.ID))
	require.NoError(t, s.Delete(ctx, v.ID))

	_, err := s.Get(ctx, v.ID)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestStore_DeleteExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newStore(now)

	alive := session.New(entities.User{ID: 1}, now, time.Hour)
	expired := session.New(entities.User{ID: 2}, now, time.Minute)
	require.NoError(t, s.Save(ctx, alive))
	require.NoError(t, s.Save(ctx, expired))

	n, err := s.DeleteExpired(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Len(t, s.sessions, 1)
	assert.Contains(t, s.sessions, alive.ID)
}

func TestRunSweeper(t *testing.T) {
	s := New().(*store)

	expired := session.New(entities.User{ID: 1}, time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, s.Save(ctx, expired))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- session.RunSweeper(ctx, s, 10*time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.sessions) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
