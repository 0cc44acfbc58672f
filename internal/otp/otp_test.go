package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.Get(ctx, "09120000002")
	assert.ErrorIs(t, err, ErrNoCode)

	require.NoError(t, s.Save(ctx, "09120000002", "hash", time.Minute))
	hash, err := s.Get(ctx, "09120000002")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "09120000002")
	assert.ErrorIs(t, err, ErrNoCode)

	require.NoError(t, s.Save(ctx, "09120000002", "hash2", time.Minute))
	require.NoError(t, s.Delete(ctx, "09120000002"))
	_, err = s.Get(ctx, "09120000002")
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestOpenWithoutRedis(t *testing.T) {
	store, closeFn, err := Open(context.Background(), "", "", 0)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &MemoryStore{}, store)
}
