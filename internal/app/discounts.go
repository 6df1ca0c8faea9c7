package app

import (
	"net/http"

	"hotel_promotions/internal/domain"
)

// DiscountService resolves hotel ids against a table fixed at construction.
type DiscountService struct {
	table    domain.DiscountTable
	greeting string
	metrics  domain.Metrics
}

func NewDiscountService(t domain.DiscountTable, greeting string) *DiscountService {
	return &DiscountService{table: t, greeting: greeting, metrics: domain.NopMetrics{}}
}

// WithMetrics sets where lookup outcomes are reported.
func (s *DiscountService) WithMetrics(m domain.Metrics) *DiscountService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// ResolveDiscount maps a raw path id to a status code and plain-text body.
// Negative or unparseable ids are 400; ids past the end of the table get DefaultDiscount.
func (s *DiscountService) ResolveDiscount(rawID string) (int, string) {
	id, outOfRange, err := domain.ParseHotelID(rawID)
	if err != nil {
		s.metrics.ObserveLookup("invalid")
		return http.StatusBadRequest, err.Error()
	}
	if outOfRange {
		s.metrics.ObserveLookup("default")
		return http.StatusOK, domain.DefaultDiscount
	}
	rate, ok := s.table.Lookup(id)
	if !ok {
		s.metrics.ObserveLookup("default")
		return http.StatusOK, domain.DefaultDiscount
	}
	s.metrics.ObserveLookup("hit")
	return http.StatusOK, rate
}

func (s *DiscountService) Greeting() string { return s.greeting }

func (s *DiscountService) TableSize() int { return s.table.Len() }
