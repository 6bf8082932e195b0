package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/port"
)

// app is the wiring shared by every command: configuration, logger and the
// catalog store.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	repo  port.CatalogRepository
	close func() error
}

// openApp reads the environment, applies the global flags and connects to the
// store. One-shot commands log warnings only unless --verbose is set.
func openApp(ctx context.Context, opts *RootOptions, logOut io.Writer, oneShot bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if opts.Store != "" {
		cfg.Store = opts.Store
		if err := cfg.Validate(); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --store", err)
		}
	}

	log := cfg.NewLogger()
	log.SetOutput(logOut)
	switch {
	case opts.Verbose:
		log.SetLevel(logrus.DebugLevel)
	case oneShot:
		log.SetLevel(logrus.WarnLevel)
	}

	repo, closeFn, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	log.WithField("store", cfg.Store).Debug("store opened")

	return &app{cfg: cfg, log: log, repo: repo, close: closeFn}, nil
}

// session builds a session over the store and loads it.
func (a *app) session(ctx context.Context, opts ...service.Option) (*service.Session, error) {
	opts = append([]service.Option{service.WithLogger(a.log)}, opts...)
	s := service.NewSession(a.repo, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	return s, nil
}

func (a *app) Close() error {
	return a.close()
}

func openRepository(ctx context.Context, cfg config.Config) (port.CatalogRepository, func() error, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return storage.NewMemoryAdapter(), func() error { return nil }, nil

	case config.StoreSQLite:
		a, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return storage.NewRedisAdapter(client, cfg.RedisPrefix), client.Close, nil

	case config.StoreMySQL:
		a, err := storage.OpenSQL(ctx, storage.DialectMySQL, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil

	case config.StorePostgres:
		a, err := storage.OpenSQL(ctx, storage.DialectPostgres, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
