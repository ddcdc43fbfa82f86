// Package main is the entry point for the Inkpress server.
// Inkpress is a blog platform backend with token-based authentication,
// profile management and image attachments.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkpress/inkpress/internal/auth"
	cachemem "github.com/inkpress/inkpress/internal/cache/memory"
	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/handler"
	"github.com/inkpress/inkpress/internal/lock"
	"github.com/inkpress/inkpress/internal/metrics"
	"github.com/inkpress/inkpress/internal/repository"
	redisrepo "github.com/inkpress/inkpress/internal/repository/redis"
	"github.com/inkpress/inkpress/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("database", cfg.Database.Driver).
		Str("uploads", cfg.Uploads.Backend).
		Msg("Starting Inkpress Server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	userRepo, blogRepo, closeDB, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer closeDB()

	// Cache and locking: Redis when enabled, in-memory otherwise.
	var (
		cache  repository.Cache
		locker lock.Locker
	)
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		cache = redisrepo.NewCache(client)
		locker = lock.NewRedisLocker(redisrepo.NewLock(client))
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("Using Redis cache and locks")
	} else {
		memCache := cachemem.NewCache()
		defer memCache.Close()
		cache = memCache
		locker = lock.NewMemoryLocker()
		logger.Info().Msg("Using in-memory cache and locks")
	}

	// Image storage
	store, uploadsDir, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize image storage")
	}

	// Services
	tokens := service.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, logger)
	authService := service.NewAuthService(userRepo, tokens, store, locker, cfg.Auth.BcryptCost, logger)
	userService := service.NewUserService(userRepo, logger)
	blogService := service.NewBlogService(blogRepo, userRepo, store, cache, logger)

	// HTTP
	var metricsHook handler.MetricsHook
	if cfg.Metrics.Enabled {
		metricsHook = metrics.New()
	}

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(authService, logger),
		UserHandler:    handler.NewUserHandler(userService, logger),
		BlogHandler:    handler.NewBlogHandler(blogService, logger),
		AuthMiddleware: auth.NewMiddleware(tokens, userRepo, logger).RequireAuth,
		Metrics:        metricsHook,
		UploadsDir:     uploadsDir,
		UploadsPrefix:  cfg.Uploads.PublicPrefix,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router.Handler(), cfg.Server.MaxUploadSize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

// setupLogger configures the root zerolog logger.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	logger := zerolog.New(out)
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Logger()
}
