package domain

import "time"

// Report generation audit statuses.
const (
	GenerationInProgress = "in_progress"
	GenerationSuccess    = "success"
	GenerationFailed     = "failed"
)

// Report types recorded in the audit trail.
const (
	ReportTypeSingle = "single"
	ReportTypeBulk   = "bulk"
)

// ReportGeneration is one audit row tracking a report request from start to
// completion.
type ReportGeneration struct {
	ID             string
	User           string
	ReportType     string
	SubscriberName string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Status         string
	ErrorMessage   string
	StartedAt      time.Time
	CompletedAt    *time.Time
}
