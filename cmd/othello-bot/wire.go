package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appcfg "github.com/park285/Othello-Nostr-bot/internal/config"
	"github.com/park285/Othello-Nostr-bot/internal/game"
	"github.com/park285/Othello-Nostr-bot/internal/msgcat"
	"github.com/park285/Othello-Nostr-bot/internal/obslog"
	"github.com/park285/Othello-Nostr-bot/internal/relay"
	"github.com/park285/Othello-Nostr-bot/internal/reply"
	"github.com/park285/Othello-Nostr-bot/internal/replylog"
	"github.com/park285/Othello-Nostr-bot/internal/responder"
	"github.com/park285/Othello-Nostr-bot/internal/secrets"
)

// app holds everything one process needs; close releases the optional backends.
type app struct {
	cfg       *appcfg.AppConfig
	pool      *relay.Pool
	lookup    game.Lookup
	responder *responder.Responder
	closers   []func() error
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newSecretStore(cfg *appcfg.AppConfig) (secrets.Store, error) {
	param := secrets.NewParamStore(cfg.ParamStoreURL, cfg.ParamStoreToken, secrets.WithParamTimeout(cfg.ParamStoreTimeout))
	switch cfg.SecretBackend {
	case appcfg.SecretBackendParamStore:
		return param, nil
	case appcfg.SecretBackendEnv:
		return secrets.NewEnvStore(), nil
	default:
		return secrets.NewChain(param, secrets.NewEnvStore())
	}
}

// newLookup builds the relay pool, fronted by Redis when REDIS_URL is set.
func newLookup(ctx context.Context, cfg *appcfg.AppConfig, pool *relay.Pool, logger *zap.Logger) (game.Lookup, func() error, error) {
	if cfg.RedisURL == "" {
		return pool, nil, nil
	}
	rdb, err := relay.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	return relay.NewCache(rdb, pool, cfg.LookupCacheTTL, logger), rdb.Close, nil
}

func wireApp(ctx context.Context) (*app, error) {
	cfg, err := appcfg.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := obslog.With(zap.String("service", "othello-bot"))
	a := &app{cfg: cfg}
	a.pool = relay.NewPool(cfg.Relays, relay.WithTimeout(cfg.RelayTimeout), relay.WithLogger(logger))

	store, err := newSecretStore(cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}

	lookup, closeLookup, err := newLookup(ctx, cfg, a.pool, logger)
	if err != nil {
		return nil, err
	}
	if closeLookup != nil {
		a.closers = append(a.closers, closeLookup)
	}
	a.lookup = lookup

	opts := []responder.Option{responder.WithLogger(logger)}
	if cfg.DatabaseURL != "" {
		repo, err := replylog.NewRepository(cfg.DatabaseURL)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("reply log: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = a.close()
			return nil, err
		}
		opts = append(opts, responder.WithRecorder(repo))
	}

	engine := game.NewEngine(lookup, nil, logger)
	a.responder = responder.New(store, cfg.SecretName, engine, reply.NewComposer(engine.Codec(), catalog), opts...)
	return a, nil
}
