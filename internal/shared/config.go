package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Table sources understood by TABLE_SOURCE.
const (
	SourceBuiltin = "builtin"
	SourceMySQL   = "mysql"
	SourceHTTP    = "http"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	Greeting        string
	TableSource     string
	MySQLDSN        string
	TableURL        string
	TableRPS        int
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SeedWorkers     int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":80"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		Greeting:        env("GREETING", "Promotions API is up"),
		TableSource:     strings.ToLower(env("TABLE_SOURCE", SourceBuiltin)),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/promotions?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		TableURL:        env("TABLE_URL", ""),
		TableRPS:        atoi("TABLE_RPS", 5),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		SeedWorkers:     atoi("SEED_WORKERS", 4),
	}
	if c.TableSource == SourceHTTP && c.TableURL == "" {
		log.Warn().Msg("TABLE_SOURCE=http but TABLE_URL is empty")
	}
	if c.SeedWorkers <= 0 {
		c.SeedWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
