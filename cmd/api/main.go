// Command api serves the books HTTP API.
//
// @title                       Books API
// @version                     1.0.0
// @description                 Book catalogue with JWT login and permission-based access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bookshelf/books-api/internal/api"
	"github.com/bookshelf/books-api/internal/api/handler"
	"github.com/bookshelf/books-api/internal/core/service"
	"github.com/bookshelf/books-api/internal/infrastructure/db/mongo"
	"github.com/bookshelf/books-api/internal/infrastructure/db/redis"
	"github.com/bookshelf/books-api/internal/infrastructure/security"
	"github.com/bookshelf/books-api/internal/pkg/config"
	"github.com/bookshelf/books-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "books-api",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	bookRepo := mongo.NewBookRepository(db)
	userRepo := mongo.NewUserRepository(db)
	if err := bookRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure book indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("token manager")
	}

	if cfg.SeedOnStart {
		res, err := mongo.NewSeeder(db, hasher, logger.Component("seed")).Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
		log.Info().Int("users", res.UsersInserted).Int("books", res.BooksInserted).Msg("seed complete")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e, err := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(userRepo, hasher, tokens, logger.Component("auth")),
		BookService: service.NewBookService(bookRepo, redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL), logger.Component("books")),
		Verifier:    tokens,
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, db) },
			"redis":   func(ctx context.Context) error { return redis.Ping(ctx, rdb) },
		},
		Registry: registry,
		Logger:   logger.Component("http"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("bye")
}
