package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"hotel_promotions/internal/domain"
)

// SeedService writes a discount table to the store and evicts its cached copy.
type SeedService struct {
	repo    domain.RateWriter
	cache   domain.Cache
	workers int
}

func NewSeedService(r domain.RateWriter, c domain.Cache, workers int) *SeedService {
	if workers <= 0 {
		workers = 1
	}
	return &SeedService{repo: r, cache: c, workers: workers}
}

// Seed upserts every rate, drops rows past the end of the table, then evicts
// the cache entry for source so the next API start reads the new table.
func (s *SeedService) Seed(ctx context.Context, t domain.DiscountTable, source string) error {
	rates := t.Rates()
	sem := semaphore.NewWeighted(int64(s.workers))
	errs := make(chan error, len(rates))

	for i, rate := range rates {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		go func(id int64, rate string) {
			defer sem.Release(1)
			if err := s.repo.UpsertRate(ctx, id, rate); err != nil {
				errs <- fmt.Errorf("upsert hotel %d: %w", id, err)
			}
		}(int64(i), rate)
	}
	// wait for all in-flight workers
	if err := sem.Acquire(ctx, int64(s.workers)); err != nil {
		return err
	}
	close(errs)
	if err := <-errs; err != nil {
		return err
	}

	if err := s.repo.Truncate(ctx, int64(len(rates))); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, TableCacheKey(source)); err != nil {
			return fmt.Errorf("evict cache: %w", err)
		}
	}
	return nil
}
