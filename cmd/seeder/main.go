package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_promotions/internal/adapters/observability"
	redisad "hotel_promotions/internal/adapters/redis"
	"hotel_promotions/internal/app"
	"hotel_promotions/internal/domain"
	"hotel_promotions/internal/shared"
	mysqlrepo "hotel_promotions/internal/storage/mysql"
)

// seeder writes the builtin discount table into MySQL and evicts the cached copy.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	table, err := domain.NewDiscountTable(domain.DefaultRates)
	if err != nil {
		log.Fatal().Err(err).Msg("builtin table invalid")
	}
	log.Info().Int("hotels", table.Len()).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	if err := app.NewSeedService(repo, cache, cfg.SeedWorkers).Seed(ctx, table, repo.Name()); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed completed")
}
