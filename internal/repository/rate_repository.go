package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/firstcentralng/bulkrep/internal/billing"
)

// RateRepository reads subscriber-specific rate overrides.
type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// OverridesFor returns the subscriber's custom rates. Rates come back as
// raw strings; parsing (and malformed-value fallback) is the resolver's
// concern.
func (r *RateRepository) OverridesFor(ctx context.Context, subscriberName string) ([]billing.Override, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subscriber_name, product_name, rate::text
		FROM bulkrep_subscriberproductrate
		WHERE LOWER(subscriber_name) = LOWER($1)`, subscriberName)
	if err != nil {
		return nil, fmt.Errorf("query custom rates for %q: %w", subscriberName, err)
	}
	defer rows.Close()
	return scanOverrides(rows)
}

// AllOverrides returns every custom rate, for the bulk run's single
// prefetch.
func (r *RateRepository) AllOverrides(ctx context.Context) ([]billing.Override, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subscriber_name, product_name, rate::text
		FROM bulkrep_subscriberproductrate`)
	if err != nil {
		return nil, fmt.Errorf("query custom rates: %w", err)
	}
	defer rows.Close()
	return scanOverrides(rows)
}

func scanOverrides(rows *sql.Rows) ([]billing.Override, error) {
	var overrides []billing.Override
	for rows.Next() {
		var o billing.Override
		if err := rows.Scan(&o.SubscriberName, &o.ProductLabel, &o.RawRate); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
