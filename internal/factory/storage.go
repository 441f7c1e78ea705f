package factory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/agleymelo/daily-diet-api/internal/config"
	storepkg "github.com/agleymelo/daily-diet-api/internal/store"
	storepg "github.com/agleymelo/daily-diet-api/internal/store/postgres"
	storesqlite "github.com/agleymelo/daily-diet-api/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver with its schema applied.
// Postgres connections are retried with exponential backoff until
// cfg.BootstrapTimeoutSeconds elapses, so the service tolerates a database
// that is still starting.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("DAILY_DIET_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
		db, err := storesqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		if err := storesqlite.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store ready")
		return storesqlite.NewWithDB(db), nil

	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("DAILY_DIET_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := openWithRetry(ctx, cfg, log, func(ctx context.Context) (*sql.DB, error) {
			return storepg.Open(ctx, dsn)
		})
		if err != nil {
			return nil, err
		}
		if err := storepg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("store ready")
		return storepg.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

func openWithRetry(ctx context.Context, cfg *config.Config, log zerolog.Logger, open func(context.Context) (*sql.DB, error)) (*sql.DB, error) {
	timeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	bootstrapCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond
	exp.MaxInterval = 5 * time.Second
	exp.MaxElapsedTime = timeout

	var db *sql.DB
	attempt := 0
	op := func() error {
		attempt++
		var err error
		db, err = open(bootstrapCtx)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("driver", cfg.DBDriver).Msg("store connect failed; retrying")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(exp, bootstrapCtx)); err != nil {
		return nil, fmt.Errorf("connect %s after %d attempts: %w", cfg.DBDriver, attempt, err)
	}
	return db, nil
}
