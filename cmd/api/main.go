package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "hotel_promotions/internal/adapters/http_server"
	"hotel_promotions/internal/adapters/observability"
	redisad "hotel_promotions/internal/adapters/redis"
	"hotel_promotions/internal/adapters/remote"
	"hotel_promotions/internal/app"
	"hotel_promotions/internal/domain"
	"hotel_promotions/internal/lifecycle"
	"hotel_promotions/internal/shared"
	mysqlrepo "hotel_promotions/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	table, err := loadTable(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.TableSource).Msg("discount table load failed")
	}
	log.Info().Str("source", cfg.TableSource).Int("hotels", table.Len()).Msg("discount table loaded")

	svc := app.NewDiscountService(table, cfg.Greeting).WithMetrics(observability.Recorder{})

	// http
	reg := observability.InitRegistry()
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{D: svc})

	if err := srv.Start(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("listen failed")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return observability.Serve(gctx, cfg.MetricsAddr, reg) })

	code := lifecycle.Run(gctx, sigs, srv, cfg.ShutdownTimeout)
	if code == lifecycle.ExitCodeInterrupt {
		os.Exit(code)
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("metrics server failed")
		code = 1
	}
	os.Exit(code)
}

// loadTable builds the discount table once; every connection it opens is closed again.
func loadTable(cfg shared.Config) (domain.DiscountTable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, loading without cache")
		} else {
			cache = rc
		}
	}

	var src domain.TableSource
	switch cfg.TableSource {
	case shared.SourceBuiltin:
		src = domain.StaticSource(domain.DefaultRates)
	case shared.SourceMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return domain.DiscountTable{}, fmt.Errorf("sql.Open: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return domain.DiscountTable{}, fmt.Errorf("db ping: %w", err)
		}
		src = mysqlrepo.New(db)
	case shared.SourceHTTP:
		c, err := remote.New(cfg.TableURL, cfg.TableRPS)
		if err != nil {
			return domain.DiscountTable{}, err
		}
		src = c
	default:
		return domain.DiscountTable{}, fmt.Errorf("unknown TABLE_SOURCE %q", cfg.TableSource)
	}

	return app.NewTableLoader(src, cache, cfg.CacheTTL).
		WithMetrics(observability.Recorder{}).
		Load(ctx)
}
