package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/firstcentralng/bulkrep/internal/domain"
)

// UsageRepository reads the external usage-log table. The table is owned by
// the upstream bureau system; this side only ever selects from it.
type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

const usageColumns = `"SubscriberName", "ProductName", "SystemUser", "SearchIdentity",
	"SubscriberEnquiryDate", "SearchOutput", "DetailsViewedDate", "ProductInputed"`

// FetchBySubscriber returns the subscriber's usage records in the inclusive
// date window, ordered for report generation.
func (r *UsageRepository) FetchBySubscriber(ctx context.Context, subscriberName string, start, end time.Time) ([]domain.UsageRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM usagereport
		WHERE "SubscriberName" = $1 AND "DetailsViewedDate" BETWEEN $2 AND $3
		ORDER BY "ProductName", "DetailsViewedDate"`, usageColumns)

	rows, err := r.db.QueryContext(ctx, query, subscriberName, start, end)
	if err != nil {
		return nil, fmt.Errorf("query usage for %q: %w", subscriberName, err)
	}
	defer rows.Close()
	return scanUsageRows(rows)
}

// FetchAll returns every usage record in the window, for the bulk run.
func (r *UsageRepository) FetchAll(ctx context.Context, start, end time.Time) ([]domain.UsageRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM usagereport
		WHERE "DetailsViewedDate" BETWEEN $1 AND $2
		ORDER BY "SubscriberName", "ProductName", "DetailsViewedDate"`, usageColumns)

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query usage window: %w", err)
	}
	defer rows.Close()
	return scanUsageRows(rows)
}

// ListSubscribers returns the distinct subscriber names active in the
// window, sorted.
func (r *UsageRepository) ListSubscribers(ctx context.Context, start, end time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT "SubscriberName" FROM usagereport
		WHERE "DetailsViewedDate" BETWEEN $1 AND $2
		ORDER BY "SubscriberName"`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanUsageRows(rows *sql.Rows) ([]domain.UsageRecord, error) {
	var records []domain.UsageRecord
	for rows.Next() {
		var (
			rec          domain.UsageRecord
			systemUser   sql.NullString
			identity     sql.NullString
			enquiryDate  sql.NullTime
			searchOutput sql.NullString
			viewedDate   sql.NullTime
			inputed      sql.NullString
		)
		if err := rows.Scan(&rec.SubscriberName, &rec.ProductName, &systemUser, &identity,
			&enquiryDate, &searchOutput, &viewedDate, &inputed); err != nil {
			return nil, err
		}
		rec.SystemUser = systemUser.String
		rec.SearchIdentity = identity.String
		rec.SearchOutput = searchOutput.String
		rec.ProductInputed = inputed.String
		if enquiryDate.Valid {
			d := enquiryDate.Time
			rec.SubscriberEnquiryDate = &d
		}
		if viewedDate.Valid {
			d := viewedDate.Time
			rec.DetailsViewedDate = &d
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
