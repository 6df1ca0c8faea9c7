package domain

import "context"

// TableSource supplies the raw discount rates the table is built from.
type TableSource interface {
	Name() string
	Load(ctx context.Context) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Metrics receives lookup and table-load outcomes.
type Metrics interface {
	ObserveLookup(outcome string)
	ObserveTableLoad(source, result string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveLookup(string) {}
func (NopMetrics) ObserveTableLoad(string, string) {}

// RateWriter is the write side used by the seeder.
type RateWriter interface {
	UpsertRate(ctx context.Context, hotelID int64, rate string) error
	Truncate(ctx context.Context, from int64) error
}

// StaticSource serves a fixed list of rates.
type StaticSource []string

func (s StaticSource) Name() string { return "builtin" }

func (s StaticSource) Load(ctx context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}
