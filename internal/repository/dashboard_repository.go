package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/firstcentralng/bulkrep/internal/domain"
)

// DashboardRepository runs the grouped aggregations behind the analytics
// dashboard. All queries share the usage-log window filter; an optional
// subscriber filter narrows them to one subscriber.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// windowClause builds the shared WHERE clause and argument list.
func windowClause(start, end time.Time, subscriber string) (string, []interface{}) {
	clause := `"DetailsViewedDate" BETWEEN $1 AND $2`
	args := []interface{}{start, end}
	if subscriber != "" {
		clause += ` AND "SubscriberName" = $3`
		args = append(args, subscriber)
	}
	return clause, args
}

func (r *DashboardRepository) TotalSubscribers(ctx context.Context, start, end time.Time, subscriber string) (int, error) {
	clause, args := windowClause(start, end, subscriber)
	var n int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(DISTINCT "SubscriberName") FROM usagereport WHERE %s`, clause),
		args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}

func (r *DashboardRepository) TotalUsageEntries(ctx context.Context, start, end time.Time, subscriber string) (int, error) {
	clause, args := windowClause(start, end, subscriber)
	var n int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM usagereport WHERE %s`, clause),
		args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count usage entries: %w", err)
	}
	return n, nil
}

// TopSubscribers returns the heaviest users in the window, busiest first.
func (r *DashboardRepository) TopSubscribers(ctx context.Context, start, end time.Time, subscriber string, limit int) ([]domain.NameCount, error) {
	clause, args := windowClause(start, end, subscriber)
	query := fmt.Sprintf(`SELECT "SubscriberName", COUNT(*) AS usage_count
		FROM usagereport WHERE %s
		GROUP BY "SubscriberName"
		ORDER BY usage_count DESC, "SubscriberName"
		LIMIT %d`, clause, limit)
	return r.nameCounts(ctx, query, args)
}

// TopProducts returns the most frequent products in the window.
func (r *DashboardRepository) TopProducts(ctx context.Context, start, end time.Time, subscriber string, limit int) ([]domain.NameCount, error) {
	clause, args := windowClause(start, end, subscriber)
	query := fmt.Sprintf(`SELECT "ProductName", COUNT(*) AS usage_count
		FROM usagereport WHERE %s
		GROUP BY "ProductName"
		ORDER BY usage_count DESC, "ProductName"
		LIMIT %d`, clause, limit)
	return r.nameCounts(ctx, query, args)
}

// DailyUsageTrend returns per-day usage counts across the window.
func (r *DashboardRepository) DailyUsageTrend(ctx context.Context, start, end time.Time, subscriber string) ([]domain.DateCount, error) {
	clause, args := windowClause(start, end, subscriber)
	query := fmt.Sprintf(`SELECT "DetailsViewedDate", COUNT(*)
		FROM usagereport WHERE %s
		GROUP BY "DetailsViewedDate"
		ORDER BY "DetailsViewedDate"`, clause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily trend: %w", err)
	}
	defer rows.Close()

	var out []domain.DateCount
	for rows.Next() {
		var dc domain.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// NewSubscribersTrend counts, per day, subscribers whose first-ever usage
// falls on that day within the window.
func (r *DashboardRepository) NewSubscribersTrend(ctx context.Context, start, end time.Time) ([]domain.DateCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT first_seen, COUNT(*) FROM (
			SELECT "SubscriberName", MIN("DetailsViewedDate") AS first_seen
			FROM usagereport GROUP BY "SubscriberName"
		) firsts
		WHERE first_seen BETWEEN $1 AND $2
		GROUP BY first_seen ORDER BY first_seen`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query new subscribers: %w", err)
	}
	defer rows.Close()

	var out []domain.DateCount
	for rows.Next() {
		var dc domain.DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// RetentionRate is the share of the previous window's subscribers that are
// also active in the current window, as a percentage.
func (r *DashboardRepository) RetentionRate(ctx context.Context, start, end time.Time) (float64, error) {
	windowDays := int(end.Sub(start).Hours()/24) + 1
	prevStart := start.AddDate(0, 0, -windowDays)
	prevEnd := start.AddDate(0, 0, -1)

	var previous, retained int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT "SubscriberName")
		FROM usagereport WHERE "DetailsViewedDate" BETWEEN $1 AND $2`,
		prevStart, prevEnd).Scan(&previous)
	if err != nil {
		return 0, fmt.Errorf("count previous window: %w", err)
	}
	if previous == 0 {
		return 0, nil
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT a."SubscriberName")
		FROM usagereport a
		WHERE a."DetailsViewedDate" BETWEEN $1 AND $2
		  AND EXISTS (
			SELECT 1 FROM usagereport b
			WHERE b."SubscriberName" = a."SubscriberName"
			  AND b."DetailsViewedDate" BETWEEN $3 AND $4
		  )`, start, end, prevStart, prevEnd).Scan(&retained)
	if err != nil {
		return 0, fmt.Errorf("count retained: %w", err)
	}
	return float64(retained) / float64(previous) * 100, nil
}

func (r *DashboardRepository) nameCounts(ctx context.Context, query string, args []interface{}) ([]domain.NameCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aggregation: %w", err)
	}
	defer rows.Close()

	var out []domain.NameCount
	for rows.Next() {
		var nc domain.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}
