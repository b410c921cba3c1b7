package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ugsbrasil/sharetrack/internal/entities"
)

func TestNew(t *testing.T) {
	now := time.Unix(100, 0)

	a := New(entities.User{ID: 1}, now, time.Minute)
	b := New(entities.User{ID: 1}, now, time.Minute)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, IsValidID(a.ID))
	assert.Equal(t, now.Add(time.Minute), a.ExpiresAt)
}

func TestSession_Expired(t *testing.T) {
	now := time.Unix(100, 0)
	s := New(entities.User{}, now, time.Minute)

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))

	s.Touch(now.Add(time.Minute), time.Minute)
	assert.False(t, s.Expired(now.Add(time.Minute)))
}

func TestIsValidID(t *testing.T) {
	assert.True(t, IsValidID(NewID()))
	assert.True(t, IsValidID("b5b1c1c8-2a48-4f5b-9f4e-35ad47a3dbb3"))
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("../../etc/passwd"))
}
