package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/repository/postgres"
	"github.com/inkpress/inkpress/internal/repository/sqlite"
	"github.com/inkpress/inkpress/internal/storage"
)

// setupDatabase opens the configured database, applies pending
// migrations and returns the repositories plus a close function.
func setupDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.UserRepository, repository.BlogRepository, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
		return postgres.NewUserRepository(db), postgres.NewBlogRepository(db), func() { db.Close() }, nil

	case "sqlite":
		sqliteCfg := sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			CacheSize:       cfg.Database.CacheSize,
			SynchronousMode: cfg.Database.SynchronousMode,
		}
		db, err := sqlite.NewDB(ctx, sqliteCfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
		return sqlite.NewUserRepository(db), sqlite.NewBlogRepository(db), func() { db.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// setupStorage creates the configured image storage backend. The second
// return value is the directory for static serving, empty for S3.
func setupStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.Backend, string, error) {
	switch cfg.Uploads.Backend {
	case "s3":
		backend, err := storage.NewS3(ctx, cfg.Uploads.S3, cfg.Uploads.PublicPrefix, logger)
		if err != nil {
			return nil, "", err
		}
		return backend, "", nil

	case "filesystem":
		backend, err := storage.NewFilesystem(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix, logger)
		if err != nil {
			return nil, "", err
		}
		return backend, cfg.Uploads.Dir, nil

	default:
		return nil, "", fmt.Errorf("unsupported uploads backend %q", cfg.Uploads.Backend)
	}
}
