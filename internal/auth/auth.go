// Package auth handles the identity marker lifecycle: exchanging credentials
// for a token, persisting it between runs, and clearing it on sign-out.
// Clearing the identity always clears the conversation cache with it, so a
// later sign-in on the same device cannot see another user's conversations.
package auth

import (
	"context"
	"fmt"

	"github.com/momai/momai/internal/api"
	"github.com/momai/momai/internal/cache"
	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/logging"
)

// Authenticator signs users in and out against the remote auth endpoint.
type Authenticator struct {
	api   api.Client
	store *cache.SnapshotStore
	log   *logging.Logger
}

// New creates an authenticator.
func New(client api.Client, store *cache.SnapshotStore, log *logging.Logger) *Authenticator {
	return &Authenticator{api: client, store: store, log: log.Sub("auth")}
}

// SignIn exchanges credentials for an identity marker and persists it.
// Any previously cached conversations are cleared first: they belong to
// whoever was signed in before.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	identity, err := a.api.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("sign in: %w", err)
	}

	prev, _ := a.store.LoadIdentity()
	if prev.Known() && !prev.Equal(identity) {
		if err := a.store.Clear(); err != nil {
			return domain.Identity{}, fmt.Errorf("clearing previous user's cache: %w", err)
		}
	}

	if err := a.store.SaveIdentity(identity); err != nil {
		return domain.Identity{}, fmt.Errorf("persisting identity: %w", err)
	}
	a.log.Info().Str("account", identity.AccountID).Msg("signed in")
	return identity, nil
}

// SignOut clears the identity marker and the conversation cache together.
func (a *Authenticator) SignOut() error {
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	a.log.Info().Msg("signed out")
	return nil
}

// Current returns the persisted identity, or the anonymous zero value.
func (a *Authenticator) Current() domain.Identity {
	identity, err := a.store.LoadIdentity()
	if err != nil {
		a.log.Warn().Err(err).Msg("identity load failed")
		return domain.Identity{}
	}
	return identity
}
