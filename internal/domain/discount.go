package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultDiscount is returned for hotel ids past the end of the table.
const DefaultDiscount = "0.0"

var (
	ErrInvalidHotelID = errors.New("invalid hotel id")
	ErrEmptyTable     = errors.New("discount table is empty")
	ErrInvalidRate    = errors.New("invalid discount rate")
)

// DefaultRates is the compiled-in table, indexed by hotel id.
var DefaultRates = []string{
	"0.05", "0.10", "0.12", "0.07", "0.03", "0.15", "0.08",
	"0.20", "0.02", "0.25", "0.06", "0.09", "0.11",
}

// DiscountTable is an immutable, ordered list of discount rates.
// The zero value is an empty table.
type DiscountTable struct {
	rates []string
}

// NewDiscountTable validates and copies rates. Every entry must be a decimal in [0, 1].
func NewDiscountTable(rates []string) (DiscountTable, error) {
	if len(rates) == 0 {
		return DiscountTable{}, ErrEmptyTable
	}
	cp := make([]string, len(rates))
	for i, r := range rates {
		r = strings.TrimSpace(r)
		f, err := strconv.ParseFloat(r, 64)
		if err != nil || f < 0 || f > 1 {
			return DiscountTable{}, fmt.Errorf("%w: hotel %d: %q", ErrInvalidRate, i, rates[i])
		}
		cp[i] = r
	}
	return DiscountTable{rates: cp}, nil
}

func (t DiscountTable) Len() int { return len(t.rates) }

// Lookup returns the rate for id, or false when id is outside [0, Len()).
func (t DiscountTable) Lookup(id int64) (string, bool) {
	if id < 0 || id >= int64(len(t.rates)) {
		return "", false
	}
	return t.rates[id], true
}

// Rates returns a copy of the table contents.
func (t DiscountTable) Rates() []string {
	out := make([]string, len(t.rates))
	copy(out, t.rates)
	return out
}

// ParseHotelID parses a path segment as a hotel id.
// Non-negative values too large for int64 report outOfRange with a nil error: they are
// valid ids that have no table entry.
func ParseHotelID(raw string) (id int64, outOfRange bool, err error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return 0, true, nil
		}
		return 0, false, fmt.Errorf("%w %q: must be a non-negative integer", ErrInvalidHotelID, raw)
	}
	if n < 0 {
		return 0, false, fmt.Errorf("%w %q: must be a non-negative integer", ErrInvalidHotelID, raw)
	}
	return n, false, nil
}
