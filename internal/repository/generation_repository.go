package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/firstcentralng/bulkrep/internal/domain"
)

const errorMessageLimit = 500

// GenerationRepository persists the report-generation audit trail.
type GenerationRepository struct {
	db *sql.DB
}

func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Start inserts an in_progress audit row and returns it.
func (r *GenerationRepository) Start(ctx context.Context, user, reportType, subscriberName string, periodStart, periodEnd time.Time) (*domain.ReportGeneration, error) {
	gen := &domain.ReportGeneration{
		ID:             uuid.NewString(),
		User:           user,
		ReportType:     reportType,
		SubscriberName: subscriberName,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		Status:         domain.GenerationInProgress,
		StartedAt:      time.Now().UTC().Truncate(time.Second),
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO bulkrep_reportgeneration
		(id, generator, report_type, status, subscriber_name, from_date, to_date, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		gen.ID, gen.User, gen.ReportType, gen.Status, gen.SubscriberName,
		gen.PeriodStart, gen.PeriodEnd, gen.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert report generation: %w", err)
	}
	return gen, nil
}

// Complete transitions an audit row to success or failed. Error messages
// are truncated to the column limit.
func (r *GenerationRepository) Complete(ctx context.Context, gen *domain.ReportGeneration, status, errorMessage string) error {
	if len(errorMessage) > errorMessageLimit {
		errorMessage = errorMessage[:errorMessageLimit]
	}
	completed := time.Now().UTC().Truncate(time.Second)
	_, err := r.db.ExecContext(ctx, `UPDATE bulkrep_reportgeneration
		SET status = $1, error_message = $2, completed_at = $3
		WHERE id = $4`,
		status, errorMessage, completed, gen.ID)
	if err != nil {
		return fmt.Errorf("update report generation %s: %w", gen.ID, err)
	}
	gen.Status = status
	gen.ErrorMessage = errorMessage
	gen.CompletedAt = &completed
	return nil
}
