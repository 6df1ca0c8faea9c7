package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_promotions/internal/domain"
)

// TableLoader builds the discount table from a source, cache-aside.
type TableLoader struct {
	source   domain.TableSource
	cache    domain.Cache
	cacheTTL time.Duration
	metrics  domain.Metrics
}

// NewTableLoader accepts a nil cache, which disables caching.
func NewTableLoader(src domain.TableSource, c domain.Cache, ttl time.Duration) *TableLoader {
	return &TableLoader{source: src, cache: c, cacheTTL: ttl, metrics: domain.NopMetrics{}}
}

// WithMetrics sets where load outcomes are reported.
func (l *TableLoader) WithMetrics(m domain.Metrics) *TableLoader {
	if m != nil {
		l.metrics = m
	}
	return l
}

// TableCacheKey is the cache key for the table produced by the named source.
func TableCacheKey(source string) string { return "promotions:discount_table:" + source }

func (l *TableLoader) Load(ctx context.Context) (domain.DiscountTable, error) {
	name := l.source.Name()
	key := TableCacheKey(name)

	if l.cache != nil {
		var rates []string
		ok, err := l.cache.Get(ctx, key, &rates)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("table cache read failed")
		}
		if ok {
			if t, err := domain.NewDiscountTable(rates); err == nil {
				l.metrics.ObserveTableLoad(name, "cache")
				return t, nil
			}
			log.Warn().Str("key", key).Msg("cached table invalid, reloading from source")
		}
	}

	rates, err := l.source.Load(ctx)
	if err != nil {
		l.metrics.ObserveTableLoad(name, "error")
		return domain.DiscountTable{}, err
	}
	t, err := domain.NewDiscountTable(rates)
	if err != nil {
		l.metrics.ObserveTableLoad(name, "error")
		return domain.DiscountTable{}, err
	}
	l.metrics.ObserveTableLoad(name, "source")

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, t.Rates(), int(l.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("table cache write failed")
		}
	}
	return t, nil
}
