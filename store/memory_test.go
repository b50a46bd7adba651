package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "character:c1", []byte{1, 2, 3}))

	has, err := s.Has(ctx, "character:c1")
	require.NoError(t, err)
	assert.True(t, has)

	v, err := s.Get(ctx, "character:c1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	has, err := s.Has(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is a no-op
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestMemoryStore_DefensiveCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte{1, 2, 3}
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 99

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out)

	out[1] = 99
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}

func TestCounterHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v, err := GetCounter(ctx, s, "character_count")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = IncrementCounter(ctx, s, "character_count")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = IncrementCounter(ctx, s, "character_count")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	require.NoError(t, s.Set(ctx, "character_count", []byte{1, 2}))
	_, err = GetCounter(ctx, s, "character_count")
	assert.Error(t, err)
}

func TestFlagHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v, err := GetFlag(ctx, s, "paused")
	require.NoError(t, err)
	assert.False(t, v)

	require.NoError(t, SetFlag(ctx, s, "paused", true))
	v, err = GetFlag(ctx, s, "paused")
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, SetFlag(ctx, s, "paused", false))
	v, err = GetFlag(ctx, s, "paused")
	require.NoError(t, err)
	assert.False(t, v)
}
