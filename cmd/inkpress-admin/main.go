// Package main is the entry point for the Inkpress admin CLI.
// This tool provides administrative commands for managing users
// directly against the configured database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/repository"
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
		fmt.Printf("Inkpress Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUserCommand(os.Args[2:]); err != nil {
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

func runUserCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user subcommand required: create, list or delete")
	}

	ctx := context.Background()

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		name := fs.String("name", "", "display name")
		username := fs.String("username", "", "unique username")
		password := fs.String("password", "", "password (min 6 characters)")
		fs.Parse(args[1:])

		if *username == "" || *password == "" {
			return fmt.Errorf("--username and --password are required")
		}
		if len(*password) < 6 {
			return fmt.Errorf("password must be at least 6 characters long")
		}

		cfg := config.MustLoad(*configPath)
		userRepo, closeDB, err := openUserRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user := domain.NewUser(uuid.New().String(), *name, *username, string(hash))
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("username %q already exists", user.Username)
			}
			return fmt.Errorf("creating user: %w", err)
		}

		fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
		return nil

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		fs.Parse(args[1:])

		cfg := config.MustLoad(*configPath)
		userRepo, closeDB, err := openUserRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		users, err := userRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tCREATED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Name, u.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()

	case "delete":
		fs := flag.NewFlagSet("user delete", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		id := fs.String("id", "", "user ID")
		fs.Parse(args[1:])

		if *id == "" {
			return fmt.Errorf("--id is required")
		}

		cfg := config.MustLoad(*configPath)
		userRepo, closeDB, err := openUserRepo(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := userRepo.Delete(ctx, *id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("user %s not found", *id)
			}
			return fmt.Errorf("deleting user: %w", err)
		}

		fmt.Printf("Deleted user %s\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

// openUserRepo connects to the configured database and returns a user
// repository. The admin CLI logs nothing below warning level.
func openUserRepo(ctx context.Context, cfg *config.Config) (repository.UserRepository, func(), error) {
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	return newUserRepository(ctx, cfg, logger)
}

func printUsage() {
	fmt.Println(`Inkpress Admin CLI

Usage:
  inkpress-admin <command> [arguments]

Commands:
  user        Manage users (create, list, delete)
  version     Print version information
  help        Show this help message

Examples:
  inkpress-admin user create --username admin --name "Site Admin" --password <secret>
  inkpress-admin user list
  inkpress-admin user delete --id <uuid>

Use "inkpress-admin <command> --help" for more information about a command.`)
}
