package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"arenabet/database"
)

// setupPGStore spins up a throwaway Postgres container, migrates it and
// returns a connected store.
func setupPGStore(t *testing.T) *PGStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("arenabet_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "arenabet-store",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrationsWithURL(connStr))

	db, err := database.NewConnection(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return NewPGStore(db)
}

func TestPGStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupPGStore(t)

	_, err := s.Get(ctx, "battle:b1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "battle:b1", []byte{0xde, 0xad}))

	has, err := s.Has(ctx, "battle:b1")
	require.NoError(t, err)
	assert.True(t, has)

	v, err := s.Get(ctx, "battle:b1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, v)

	// Upsert overwrites in place
	require.NoError(t, s.Set(ctx, "battle:b1", []byte{0x01}))
	v, err = s.Get(ctx, "battle:b1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, v)

	require.NoError(t, s.Delete(ctx, "battle:b1"))
	_, err = s.Get(ctx, "battle:b1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGStore_CounterHelpers(t *testing.T) {
	ctx := context.Background()
	s := setupPGStore(t)

	v, err := IncrementCounter(ctx, s, "spool_count")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	v, err = GetCounter(ctx, s, "spool_count")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}
