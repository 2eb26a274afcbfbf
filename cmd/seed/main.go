// Command seed inserts the demo users and books. Running it twice is harmless.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bookshelf/books-api/internal/infrastructure/db/mongo"
	"github.com/bookshelf/books-api/internal/infrastructure/security"
	"github.com/bookshelf/books-api/internal/pkg/config"
	"github.com/bookshelf/books-api/pkg/logger"
)

func main() {
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
		Service: "books-seed",
		Env:     cfg.Env,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	res, err := mongo.NewSeeder(db, security.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("seed")).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int("users", res.UsersInserted).Int("books", res.BooksInserted).Msg("seed complete")
}
