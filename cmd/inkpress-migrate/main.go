// Package main is the entry point for the Inkpress database migration
// tool. It applies the embedded schema migrations for either backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/repository/postgres"
	"github.com/inkpress/inkpress/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Inkpress Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "status":
		if err := run(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := config.MustLoad(*configPath)
	logger := zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	ctx := context.Background()

	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if command == "status" {
			version, err := db.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database: postgres (%s)\nSchema version: %d\n", cfg.Database.Database, version)
			return nil
		}

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil

	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if command == "status" {
			version, err := db.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database: sqlite (%s)\nSchema version: %d\n", cfg.Database.Path, version)
			return nil
		}

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func printUsage() {
	fmt.Println(`Inkpress Migration Tool

Usage:
  inkpress-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

Configuration:
  The database is selected via the standard Inkpress configuration
  (config file or INKPRESS_DATABASE_* environment variables).

Examples:
  inkpress-migrate up --config ./configs/config.yaml
  INKPRESS_DATABASE_DRIVER=postgres inkpress-migrate status`)
}
