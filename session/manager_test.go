package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), newFakeIdentity(), WithSweepInterval(time.Hour))

	_, err := m.Get("sid")
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.Init(ctx))

	_, err = m.Get("")
	assert.ErrorIs(t, err, ErrEmptySessionID)

	a, err := m.Get("sid")
	require.NoError(t, err)
	b, err := m.Get("sid")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())

	m.Forget("sid")
	c, err := m.Get("sid")
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	require.NoError(t, m.Dispose(ctx))
	require.NoError(t, m.Dispose(ctx))
	assert.Zero(t, m.Len())

	_, err = m.Get("sid")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestManagerStoresShareTokenStorage(t *testing.T) {
	ctx := context.Background()
	tokens := NewMemoryStorage()
	m := NewManager(tokens, newFakeIdentity())
	require.NoError(t, m.Init(ctx))
	defer m.Dispose(ctx)

	store, err := m.Get("sid")
	require.NoError(t, err)
	require.NoError(t, store.Login(ctx, "tok"))

	m.Forget("sid")
	token, err := tokens.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestManagerEvictsIdleStores(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), newFakeIdentity(), WithIdleTTL(time.Minute), WithSweepInterval(time.Hour))
	require.NoError(t, m.Init(ctx))
	defer m.Dispose(ctx)

	_, err := m.Get("old")
	require.NoError(t, err)
	_, err = m.Get("new")
	require.NoError(t, err)

	assert.Zero(t, m.evictIdle(time.Now()))
	assert.Equal(t, 2, m.evictIdle(time.Now().Add(2*time.Minute)))
	assert.Zero(t, m.Len())
}
