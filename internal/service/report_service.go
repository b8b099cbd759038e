package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firstcentralng/bulkrep/internal/domain"
	"github.com/firstcentralng/bulkrep/internal/logger"
	"github.com/firstcentralng/bulkrep/internal/report"
)

// ReportGenerator builds the actual workbook bytes. Satisfied by
// report.Assembler.
type ReportGenerator interface {
	Generate(ctx context.Context, req report.Request) (*report.Result, error)
	GenerateBulk(ctx context.Context, subscribers []string, periodStart, periodEnd time.Time, includeBills, includeProducts bool, username string) (*report.BulkResult, error)
}

// SubscriberLister lists the subscribers active in a date window.
type SubscriberLister interface {
	ListSubscribers(ctx context.Context, start, end time.Time) ([]string, error)
}

// AuditStore persists report-generation audit rows.
type AuditStore interface {
	Start(ctx context.Context, user, reportType, subscriberName string, periodStart, periodEnd time.Time) (*domain.ReportGeneration, error)
	Complete(ctx context.Context, gen *domain.ReportGeneration, status, errorMessage string) error
}

type ReportService interface {
	GenerateSingle(ctx context.Context, req report.Request) (*report.Result, error)
	GenerateBulk(ctx context.Context, subscribers []string, periodStart, periodEnd time.Time, includeBills, includeProducts bool, username string) (*report.BulkResult, error)
	ListSubscribers(ctx context.Context, start, end time.Time) ([]string, error)
	SubscribersCSV(ctx context.Context, start, end time.Time) ([]byte, string, error)
}

type reportService struct {
	assembler   ReportGenerator
	subscribers SubscriberLister
	audit       AuditStore
	reportsDir  string
}

func NewReportService(assembler ReportGenerator, subscribers SubscriberLister, audit AuditStore, reportsDir string) ReportService {
	return &reportService{
		assembler:   assembler,
		subscribers: subscribers,
		audit:       audit,
		reportsDir:  reportsDir,
	}
}

// GenerateSingle wraps one report generation in an audit transition and
// keeps a copy of the produced file under the reports directory.
func (s *reportService) GenerateSingle(ctx context.Context, req report.Request) (*report.Result, error) {
	gen := s.startAudit(ctx, req.Username, domain.ReportTypeSingle, req.SubscriberName, req.PeriodStart, req.PeriodEnd)

	res, err := s.assembler.Generate(ctx, req)
	if err != nil {
		s.completeAudit(ctx, gen, domain.GenerationFailed, err.Error())
		return nil, err
	}

	s.persist(ctx, filepath.Join(s.reportsDir, "single", res.Filename), res.Bytes)
	s.completeAudit(ctx, gen, domain.GenerationSuccess, "")
	return res, nil
}

// GenerateBulk runs the best-effort bulk generation under a single audit
// row; partial success is still success, with the skip list recorded as the
// audit message.
func (s *reportService) GenerateBulk(ctx context.Context, subscribers []string, periodStart, periodEnd time.Time, includeBills, includeProducts bool, username string) (*report.BulkResult, error) {
	gen := s.startAudit(ctx, username, domain.ReportTypeBulk, "", periodStart, periodEnd)

	res, err := s.assembler.GenerateBulk(ctx, subscribers, periodStart, periodEnd, includeBills, includeProducts, username)
	if err != nil {
		s.completeAudit(ctx, gen, domain.GenerationFailed, err.Error())
		return nil, err
	}

	s.persist(ctx, filepath.Join(s.reportsDir, "bulk", res.Filename), res.ZipBytes)

	note := ""
	if len(res.Skipped) > 0 {
		note = res.Summary()
	}
	s.completeAudit(ctx, gen, domain.GenerationSuccess, note)
	return res, nil
}

func (s *reportService) ListSubscribers(ctx context.Context, start, end time.Time) ([]string, error) {
	return s.subscribers.ListSubscribers(ctx, start, end)
}

// SubscribersCSV renders the active-subscriber list as a CSV download.
func (s *reportService) SubscribersCSV(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	names, err := s.subscribers.ListSubscribers(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("list subscribers: %w", err)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{"SubscriberName"}); err != nil {
		return nil, "", err
	}
	for _, name := range names {
		if err := cw.Write([]string{name}); err != nil {
			return nil, "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("subscribers_%s_%s.csv", start.Format("20060102"), end.Format("20060102"))
	return buf.Bytes(), filename, nil
}

// startAudit inserts the in_progress row. Audit failures never block report
// generation; they are logged and the transition becomes a no-op.
func (s *reportService) startAudit(ctx context.Context, user, reportType, subscriberName string, periodStart, periodEnd time.Time) *domain.ReportGeneration {
	if s.audit == nil {
		return nil
	}
	gen, err := s.audit.Start(ctx, user, reportType, subscriberName, periodStart, periodEnd)
	if err != nil {
		logger.ErrorLog(ctx, "audit start failed: %v", err)
		return nil
	}
	return gen
}

func (s *reportService) completeAudit(ctx context.Context, gen *domain.ReportGeneration, status, message string) {
	if s.audit == nil || gen == nil {
		return
	}
	if err := s.audit.Complete(ctx, gen, status, message); err != nil {
		logger.ErrorLog(ctx, "audit complete failed for %s: %v", gen.ID, err)
	}
}

// persist writes a copy of the generated file; the caller still gets the
// bytes even when the copy cannot be written.
func (s *reportService) persist(ctx context.Context, path string, data []byte) {
	if s.reportsDir == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.WarnLog(ctx, "cannot create reports directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.WarnLog(ctx, "cannot persist report copy %s: %v", path, err)
	}
}
