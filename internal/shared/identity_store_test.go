package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdentityStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdentityStore(client, "shipline_session", time.Hour), mr
}

func TestIdentityStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := Identity{
		Username:   "kasun",
		AccountNo:  "1-2-5-101",
		CustomerID: 7,
		IsCustomer: true,
	}
	require.NoError(t, store.Save(ctx, "tok-abc", want))

	got, err := store.Load(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIdentityStoreMissingToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Load(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIdentityStoreRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-abc", Identity{Username: "kasun"}))

	mr.FastForward(30 * time.Minute)
	_, err := store.Load(ctx, "tok-abc")
	require.NoError(t, err)

	// The load above must have reset the clock; another 45 minutes stays
	// inside the fresh one-hour window.
	mr.FastForward(45 * time.Minute)
	_, err = store.Load(ctx, "tok-abc")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx, "tok-abc")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
