package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstcentralng/bulkrep/internal/domain"
	"github.com/firstcentralng/bulkrep/internal/report"
)

type fakeGenerator struct {
	result     *report.Result
	bulkResult *report.BulkResult
	err        error
}

func (f *fakeGenerator) Generate(ctx context.Context, req report.Request) (*report.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGenerator) GenerateBulk(ctx context.Context, subscribers []string, periodStart, periodEnd time.Time, includeBills, includeProducts bool, username string) (*report.BulkResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bulkResult, nil
}

type fakeLister struct {
	names []string
	err   error
}

func (f *fakeLister) ListSubscribers(ctx context.Context, start, end time.Time) ([]string, error) {
	return f.names, f.err
}

type auditCall struct {
	status  string
	message string
}

type fakeAudit struct {
	started   []*domain.ReportGeneration
	completed []auditCall
	startErr  error
}

func (f *fakeAudit) Start(ctx context.Context, user, reportType, subscriberName string, periodStart, periodEnd time.Time) (*domain.ReportGeneration, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	gen := &domain.ReportGeneration{
		ID:             "gen-1",
		User:           user,
		ReportType:     reportType,
		SubscriberName: subscriberName,
		Status:         domain.GenerationInProgress,
	}
	f.started = append(f.started, gen)
	return gen, nil
}

func (f *fakeAudit) Complete(ctx context.Context, gen *domain.ReportGeneration, status, errorMessage string) error {
	f.completed = append(f.completed, auditCall{status: status, message: errorMessage})
	return nil
}

func testRequest() report.Request {
	return report.Request{
		SubscriberName:  "Acme Finance Ltd",
		PeriodStart:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		IncludeBills:    true,
		IncludeProducts: true,
		Username:        "ops.user",
	}
}

func TestGenerateSingleRecordsSuccessAndPersists(t *testing.T) {
	dir := t.TempDir()
	gen := &fakeGenerator{result: &report.Result{Bytes: []byte("xlsx-bytes"), Filename: "acme.xlsx"}}
	audit := &fakeAudit{}
	svc := NewReportService(gen, &fakeLister{}, audit, dir)

	res, err := svc.GenerateSingle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "acme.xlsx", res.Filename)

	require.Len(t, audit.started, 1)
	assert.Equal(t, domain.ReportTypeSingle, audit.started[0].ReportType)
	require.Len(t, audit.completed, 1)
	assert.Equal(t, domain.GenerationSuccess, audit.completed[0].status)

	saved, err := os.ReadFile(filepath.Join(dir, "single", "acme.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), saved)
}

func TestGenerateSingleRecordsFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("template sheet is unreadable")}
	audit := &fakeAudit{}
	svc := NewReportService(gen, &fakeLister{}, audit, t.TempDir())

	_, err := svc.GenerateSingle(context.Background(), testRequest())
	require.Error(t, err)

	require.Len(t, audit.completed, 1)
	assert.Equal(t, domain.GenerationFailed, audit.completed[0].status)
	assert.Equal(t, "template sheet is unreadable", audit.completed[0].message)
}

func TestGenerateSingleSurvivesAuditOutage(t *testing.T) {
	gen := &fakeGenerator{result: &report.Result{Bytes: []byte("x"), Filename: "r.xlsx"}}
	audit := &fakeAudit{startErr: errors.New("db down")}
	svc := NewReportService(gen, &fakeLister{}, audit, t.TempDir())

	res, err := svc.GenerateSingle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "r.xlsx", res.Filename)
	assert.Empty(t, audit.completed)
}

func TestGenerateBulkRecordsSkipSummary(t *testing.T) {
	dir := t.TempDir()
	gen := &fakeGenerator{bulkResult: &report.BulkResult{
		ZipBytes: []byte("zip-bytes"),
		Filename: "all_subscriber_reports.zip",
		Total:    3,
		Succeeded: 2,
		Skipped:  []report.SkippedSubscriber{{Name: "Bravo", Reason: "no records"}},
	}}
	audit := &fakeAudit{}
	svc := NewReportService(gen, &fakeLister{}, audit, dir)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	res, err := svc.GenerateBulk(context.Background(), []string{"Alpha", "Bravo", "Cedar"}, start, end, true, true, "ops.user")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)

	require.Len(t, audit.started, 1)
	assert.Equal(t, domain.ReportTypeBulk, audit.started[0].ReportType)
	assert.Empty(t, audit.started[0].SubscriberName)
	require.Len(t, audit.completed, 1)
	assert.Equal(t, domain.GenerationSuccess, audit.completed[0].status)
	assert.Contains(t, audit.completed[0].message, "2 of 3")

	saved, err := os.ReadFile(filepath.Join(dir, "bulk", "all_subscriber_reports.zip"))
	require.NoError(t, err)
	assert.Equal(t, []byte("zip-bytes"), saved)
}

func TestSubscribersCSV(t *testing.T) {
	lister := &fakeLister{names: []string{"Acme Finance Ltd", "Delta Micro-Credit"}}
	svc := NewReportService(&fakeGenerator{}, lister, nil, "")

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	data, filename, err := svc.SubscribersCSV(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, "subscribers_20250301_20250331.csv", filename)
	assert.Equal(t, "SubscriberName\nAcme Finance Ltd\nDelta Micro-Credit\n", string(data))
}

func TestSubscribersCSVPropagatesListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	svc := NewReportService(&fakeGenerator{}, lister, nil, "")

	_, _, err := svc.SubscribersCSV(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list subscribers")
}
