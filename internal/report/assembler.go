package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/firstcentralng/bulkrep/internal/billing"
	"github.com/firstcentralng/bulkrep/internal/domain"
	"github.com/firstcentralng/bulkrep/pkg/xlsxtmpl"
)

const bannerDateLayout = "02/01/2006"

// UsageSource supplies usage records for a subscriber and window.
type UsageSource interface {
	FetchBySubscriber(ctx context.Context, subscriberName string, start, end time.Time) ([]domain.UsageRecord, error)
}

// RateSource supplies a subscriber's custom rate overrides.
type RateSource interface {
	OverridesFor(ctx context.Context, subscriberName string) ([]billing.Override, error)
}

// Request is one report generation ask, already validated for auth by the
// caller.
type Request struct {
	SubscriberName  string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	IncludeBills    bool
	IncludeProducts bool
	Username        string
}

// Result is a finished report.
type Result struct {
	Bytes    []byte
	Filename string
}

// Assembler builds one workbook per request from the billing template.
type Assembler struct {
	templatePath string
	layout       xlsxtmpl.TemplateLayout
	usage        UsageSource
	rates        RateSource
}

func NewAssembler(templatePath string, layout xlsxtmpl.TemplateLayout, usage UsageSource, rates RateSource) *Assembler {
	return &Assembler{
		templatePath: templatePath,
		layout:       layout,
		usage:        usage,
		rates:        rates,
	}
}

// Generate produces the subscriber's report for the period. DataWarning
// results mean "valid request, nothing to report, no file"; TemplateError
// and ValidationError are failures.
func (a *Assembler) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.SubscriberName == "" {
		return nil, &ValidationError{Msg: "subscriber name is required"}
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
		return nil, &ValidationError{Msg: "report period start and end dates are required"}
	}
	if !req.IncludeBills && !req.IncludeProducts {
		return nil, &DataWarning{Msg: "nothing requested: enable bills, product details, or both"}
	}

	records, err := a.usage.FetchBySubscriber(ctx, req.SubscriberName, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch usage for %q: %w", req.SubscriberName, err)
	}
	if req.IncludeProducts && len(records) == 0 {
		return nil, &DataWarning{Msg: fmt.Sprintf("no usage records found for %s in the selected period", req.SubscriberName)}
	}

	f, err := excelize.OpenFile(a.templatePath)
	if err != nil {
		return nil, &TemplateError{Reason: "cannot open billing template", Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	w := xlsxtmpl.NewCellWriter(f)

	if err := a.writeBanners(w, sheet, req); err != nil {
		return nil, err
	}

	if req.IncludeBills {
		if err := a.writeBillingSummary(ctx, w, sheet, req.SubscriberName, records); err != nil {
			return nil, err
		}
	}

	lastRow := 0
	footerSheet := sheet
	if req.IncludeProducts {
		rep, err := xlsxtmpl.NewReplicator(f, a.layout, sheet)
		if err != nil {
			return nil, &TemplateError{Reason: "product name placeholder not found", Err: err}
		}
		groups := domain.GroupByProduct(records)
		if err := rep.Run(toSections(groups)); err != nil {
			return nil, fmt.Errorf("replicate product sections: %w", err)
		}
		lastRow = rep.LastRow()
		footerSheet = rep.ActiveSheet()
	}

	for _, name := range f.GetSheetList() {
		if err := xlsxtmpl.AutoSize(f, name, a.layout); err != nil {
			return nil, fmt.Errorf("autosize %s: %w", name, err)
		}
	}

	if lastRow == 0 {
		lastRow = 8
	}
	if err := xlsxtmpl.AddGeneratedBy(f, footerSheet, lastRow, req.Username); err != nil {
		return nil, fmt.Errorf("stamp footer: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return &Result{
		Bytes:    buf.Bytes(),
		Filename: SingleReportFilename(req.SubscriberName, req.PeriodStart),
	}, nil
}

func (a *Assembler) writeBanners(w *xlsxtmpl.CellWriter, sheet string, req Request) error {
	title := fmt.Sprintf("FirstCentral NIGERIA - BILLING DETAILS - %s", req.SubscriberName)
	if err := w.WriteRowBanner(sheet, a.layout.TitleBannerRow, a.layout.TitleFallbackCol, title); err != nil {
		return fmt.Errorf("write title banner: %w", err)
	}

	subtitle := fmt.Sprintf("BILLING DETAILS - %s", req.SubscriberName)
	if err := w.Write(sheet, a.layout.SubtitleRow, a.layout.SubtitleCol, xlsxtmpl.Text(subtitle)); err != nil {
		return fmt.Errorf("write subtitle: %w", err)
	}

	dates := fmt.Sprintf("REPORT GENERATED FOR RECORDS BETWEEN %s and %s",
		req.PeriodStart.Format(bannerDateLayout), req.PeriodEnd.Format(bannerDateLayout))
	if err := w.WriteRowBanner(sheet, a.layout.DateBannerRow, a.layout.DateFallbackCol, dates); err != nil {
		return fmt.Errorf("write date banner: %w", err)
	}
	return nil
}

func (a *Assembler) writeBillingSummary(ctx context.Context, w *xlsxtmpl.CellWriter, sheet, subscriberName string, records []domain.UsageRecord) error {
	overrides, err := a.rates.OverridesFor(ctx, subscriberName)
	if err != nil {
		return fmt.Errorf("fetch custom rates for %q: %w", subscriberName, err)
	}
	resolver := billing.NewResolver(billing.DefaultRates(), overrides)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.ProductName
	}
	statement := billing.BuildStatement(subscriberName, billing.CountByCategory(names), resolver)

	for _, line := range statement.Lines {
		row, ok := a.layout.SummaryRows[line.CategoryKey]
		if !ok {
			continue
		}
		if err := w.Write(sheet, row, a.layout.QuantityCol, xlsxtmpl.Int(line.Quantity)); err != nil {
			return fmt.Errorf("write quantity row %d: %w", row, err)
		}
		if err := w.Write(sheet, row, a.layout.RateCol, xlsxtmpl.Text(billing.FormatNaira(line.Rate))); err != nil {
			return fmt.Errorf("write rate row %d: %w", row, err)
		}
		if err := w.Write(sheet, row, a.layout.AmountCol, xlsxtmpl.Text(billing.FormatNaira(line.Amount))); err != nil {
			return fmt.Errorf("write amount row %d: %w", row, err)
		}
	}

	totals := []struct {
		row   int
		value string
	}{
		{a.layout.TotalRow, billing.FormatNaira(statement.Total)},
		{a.layout.VATRow, billing.FormatNaira(statement.VAT)},
		{a.layout.AmountDueRow, billing.FormatNaira(statement.AmountDue)},
	}
	for _, t := range totals {
		if err := w.Write(sheet, t.row, a.layout.AmountCol, xlsxtmpl.Text(t.value)); err != nil {
			return fmt.Errorf("write total row %d: %w", t.row, err)
		}
	}
	return nil
}

func toSections(groups []domain.ProductGroup) []xlsxtmpl.ProductSection {
	sections := make([]xlsxtmpl.ProductSection, len(groups))
	for i, g := range groups {
		rows := make([]xlsxtmpl.DetailRow, len(g.Records))
		for j, rec := range g.Records {
			rows[j] = xlsxtmpl.DetailRow{
				Subscriber:   rec.SubscriberName,
				SystemUser:   rec.SystemUser,
				EnquiryDate:  xlsxtmpl.DatePtr(rec.SubscriberEnquiryDate),
				Product:      rec.ProductName,
				ViewedDate:   xlsxtmpl.DatePtr(rec.DetailsViewedDate),
				SearchOutput: rec.SearchOutput,
			}
		}
		sections[i] = xlsxtmpl.ProductSection{Name: g.Name, Rows: rows}
	}
	return sections
}
