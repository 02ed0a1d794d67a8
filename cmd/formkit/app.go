package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/session"
	"github.com/goliatone/go-formkit/pkg/store"
)

type cliFlags struct {
	store    string
	file     string
	logLevel string
	strict   bool
}

// app carries what every command needs: the resolved configuration and the
// open repository.
type app struct {
	flags cliFlags
	cfg   config.Config
	repo  store.Repository
	close func() error
}

// open resolves configuration (environment first, then flags) and opens the
// configured repository. Commands must defer a.shutdown.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.store != "" {
		cfg.Store = a.flags.store
	}
	if a.flags.file != "" {
		cfg.File = a.flags.file
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if a.flags.strict {
		cfg.StrictDerivation = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLogLevel(level)

	repo, closer, err := openRepository(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	logger.Verbose("using", cfg.Store, "store")
	a.cfg, a.repo, a.close = cfg, repo, closer
	return nil
}

func (a *app) shutdown() {
	if a.close == nil {
		return
	}
	if err := a.close(); err != nil {
		logger.Warning("closing store:", err)
	}
	a.close = nil
}

func (a *app) sessionOptions() []session.Option {
	var opts []session.Option
	if a.cfg.StrictDerivation {
		opts = append(opts, session.WithStrictDerivation(0))
	}
	return opts
}

func openRepository(ctx context.Context, cfg config.Config) (store.Repository, func() error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemoryRepository(), noop, nil
	case config.StoreFile:
		return store.NewFileRepository(cfg.File), noop, nil
	case config.StoreBolt:
		repo, err := store.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisRepository(client, cfg.RedisKey), client.Close, nil
	case config.StorePostgres:
		repo, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { repo.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
