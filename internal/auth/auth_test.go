package auth

import (
	"context"
	"testing"

	"github.com/momai/momai/internal/api"
	"github.com/momai/momai/internal/cache"
	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth(t *testing.T, client api.Client) (*Authenticator, *cache.SnapshotStore) {
	t.Helper()
	store := cache.NewSnapshotStore(cache.NewMemoryKV())
	return New(client, store, logging.New(nil, "silent")), store
}

func TestSignIn_PersistsIdentity(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(ctx context.Context, email, password string) (domain.Identity, error) {
			return domain.Identity{AccountID: "acct-1", Token: "tok-1"}, nil
		},
	}
	a, store := testAuth(t, client)

	identity, err := a.SignIn(context.Background(), "mom@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, identity.Known())

	persisted, err := store.LoadIdentity()
	require.NoError(t, err)
	assert.Equal(t, identity, persisted)
}

func TestSignIn_RejectedCredentials(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(ctx context.Context, email, password string) (domain.Identity, error) {
			return domain.Identity{}, &api.APIError{Status: 401, Message: "bad credentials"}
		},
	}
	a, store := testAuth(t, client)

	_, err := a.SignIn(context.Background(), "mom@example.com", "wrong")
	assert.Error(t, err)

	persisted, _ := store.LoadIdentity()
	assert.False(t, persisted.Known())
}

func TestSignIn_DifferentUserClearsCache(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(ctx context.Context, email, password string) (domain.Identity, error) {
			return domain.Identity{AccountID: "acct-2", Token: "tok-2"}, nil
		},
	}
	a, store := testAuth(t, client)

	// Previous user's state on this device.
	require.NoError(t, store.SaveIdentity(domain.Identity{AccountID: "acct-1", Token: "tok-1"}))
	require.NoError(t, store.SaveState([]domain.Conversation{{ID: "c1", Title: "private"}}, "c1"))

	_, err := a.SignIn(context.Background(), "other@example.com", "secret")
	require.NoError(t, err)

	snap, err := store.LoadState()
	require.NoError(t, err)
	assert.Empty(t, snap.Conversations, "previous user's conversations must be gone")
}

func TestSignOut_ClearsEverything(t *testing.T) {
	a, store := testAuth(t, &api.MockClient{})
	require.NoError(t, store.SaveIdentity(domain.Identity{AccountID: "acct-1", Token: "tok-1"}))
	require.NoError(t, store.SaveState([]domain.Conversation{{ID: "c1"}}, "c1"))

	require.NoError(t, a.SignOut())

	assert.False(t, a.Current().Known())
	snap, _ := store.LoadState()
	assert.Empty(t, snap.Conversations)
}

func TestCurrent_Anonymous(t *testing.T) {
	a, _ := testAuth(t, &api.MockClient{})
	assert.False(t, a.Current().Known())
}
