package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel_promotions/internal/domain"
)

// ErrTableGap is returned when stored hotel ids do not run contiguously from 0.
var ErrTableGap = errors.New("hotel_discounts: ids are not contiguous from 0")

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Name() string { return "mysql" }

// Load reads the whole table in hotel id order.
func (r *Repo) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, loadRatesSQL)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id int64
		var rate string
		if err := rows.Scan(&id, &rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		if id != int64(len(out)) {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrTableGap, len(out), id)
		}
		out = append(out, normalizeRate(rate))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptyTable
	}
	return out, nil
}

func (r *Repo) UpsertRate(ctx context.Context, hotelID int64, rate string) error {
	_, err := r.db.ExecContext(ctx, upsertRateSQL, hotelID, rate)
	return err
}

// Truncate removes rows with hotel_id >= from.
func (r *Repo) Truncate(ctx context.Context, from int64) error {
	_, err := r.db.ExecContext(ctx, truncateFromSQL, from)
	return err
}

// normalizeRate strips DECIMAL padding but keeps two decimals ("0.1200" -> "0.12", "0.1000" -> "0.10").
func normalizeRate(s string) string {
	s = strings.TrimSpace(s)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + ".00"
	}
	for len(s) > dot+3 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	for len(s) < dot+3 {
		s += "0"
	}
	return s
}
