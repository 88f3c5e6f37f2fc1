package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/superlists/pkg/session"
)

func newSession(token string, ttl time.Duration) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:             uuid.New(),
		Token:          token,
		Identity:       "edith@example.com",
		Data:           map[string]string{"k": "v"},
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		orig := newSession("tok", time.Hour)
		require.NoError(t, store.Create(ctx, orig))
		orig.Data["k"] = "mutated"

		got, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "v", got.Data["k"])

		got.Identity = "other@example.com"
		again, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "edith@example.com", again.Identity)
	})

	t.Run("expired sessions are not found", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Create(ctx, newSession("old", -time.Second)))
		_, err := store.Get(ctx, "old")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("update activity", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Create(ctx, newSession("tok", time.Minute)))
		at := time.Now().Add(time.Second)
		exp := at.Add(time.Hour)
		require.NoError(t, store.UpdateActivity(ctx, "tok", at, exp))

		got, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, got.LastActivityAt.Equal(at))
		assert.True(t, got.ExpiresAt.Equal(exp))

		assert.ErrorIs(t, store.UpdateActivity(ctx, "missing", at, exp), session.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Create(ctx, newSession("tok", time.Hour)))
		require.NoError(t, store.Delete(ctx, "tok"))
		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("cleanup loop", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(10 * time.Millisecond)
		defer store.Close()

		require.NoError(t, store.Create(ctx, newSession("short", 20*time.Millisecond)))
		require.NoError(t, store.Create(ctx, newSession("long", time.Hour)))

		require.Eventually(t, func() bool {
			return store.Len() == 1
		}, time.Second, 10*time.Millisecond)
	})
}
