package cli

import (
	"github.com/momai/momai/internal/api"
	"github.com/momai/momai/internal/auth"
	"github.com/momai/momai/internal/cache"
	"github.com/momai/momai/internal/config"
	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/session"
)

// app wires the session manager and its collaborators for one command run.
type app struct {
	cfg     config.Config
	kv      cache.KV
	store   *cache.SnapshotStore
	client  api.Client
	manager *session.Manager
	auth    *auth.Authenticator
}

// openApp builds the dependency graph and restores cached state.
func openApp() (*app, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = paths.CacheDB
	}
	kv, err := cache.Open(cfg.Cache.Store, cachePath, log)
	if err != nil {
		return nil, err
	}

	store := cache.NewSnapshotStore(kv)
	client := api.NewHTTPClient(cfg.API.BaseURL, cfg.API.Timeout(), log)
	manager := session.NewManager(session.Config{
		API:     client,
		Cache:   store,
		Log:     log,
		Timeout: cfg.API.Timeout(),
	})
	manager.Restore()

	return &app{
		cfg:     cfg,
		kv:      kv,
		store:   store,
		client:  client,
		manager: manager,
		auth:    auth.New(client, store, log),
	}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		log.Warn().Err(err).Msg("cache close failed")
	}
}

// identity returns the signed-in identity, falling back to a static token
// from config when no login has happened on this device.
func (a *app) identity() domain.Identity {
	if identity := a.auth.Current(); identity.Known() {
		return identity
	}
	if a.cfg.API.Token != "" {
		return domain.Identity{Token: a.cfg.API.Token}
	}
	return domain.Identity{}
}
