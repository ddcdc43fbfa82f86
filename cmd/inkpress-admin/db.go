package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/repository/postgres"
	"github.com/inkpress/inkpress/internal/repository/sqlite"
)

// newUserRepository opens the configured database, applies pending
// migrations and returns its user repository.
func newUserRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.UserRepository, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
		return postgres.NewUserRepository(db), func() { db.Close() }, nil

	case "sqlite":
		sqliteCfg := sqlite.DefaultConfig(cfg.Database.Path)
		db, err := sqlite.NewDB(ctx, sqliteCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("applying migrations: %w", err)
		}
		return sqlite.NewUserRepository(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
