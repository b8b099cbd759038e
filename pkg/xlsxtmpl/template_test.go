package xlsxtmpl

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// newTestTemplate builds an in-memory workbook shaped like the billing
// template: banner merges, a billing summary block, a product section
// header with the name placeholder, an exemplar data row carrying the
// section's merge spans, and an empty second sheet.
func newTestTemplate(t *testing.T) (*excelize.File, TemplateLayout) {
	t.Helper()
	layout := DefaultLayout()
	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet("Sheet2"); err != nil {
		t.Fatalf("create overflow sheet: %v", err)
	}

	mustMerge := func(startCol, startRow, endCol, endRow int) {
		start, err := excelize.CoordinatesToCellName(startCol, startRow)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		end, err := excelize.CoordinatesToCellName(endCol, endRow)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.MergeCell(sheet, start, end); err != nil {
			t.Fatalf("merge %s:%s: %v", start, end, err)
		}
	}
	mustSet := func(col, row int, value string) {
		axis, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellStr(sheet, axis, value); err != nil {
			t.Fatalf("set %s: %v", axis, err)
		}
	}

	// Banner rows are wide single-row merges.
	mustMerge(2, layout.TitleBannerRow, layout.MaxFormatCol, layout.TitleBannerRow)
	mustMerge(2, layout.DateBannerRow, layout.MaxFormatCol, layout.DateBannerRow)

	// Billing summary labels.
	mustSet(3, layout.TotalRow, "Total")
	mustSet(3, layout.VATRow, "VAT (7.5%)")
	mustSet(3, layout.AmountDueRow, "Amount Due")

	// Section header block with the placeholder on its second row.
	mustSet(3, layout.HeaderTop, "DETAILS OF SEARCH REPORT")
	mustMerge(3, layout.HeaderTop, 9, layout.HeaderTop)
	mustSet(5, layout.HeaderTop+2, "Product: ")
	mustSet(colTracking, layout.HeaderBottom, "Unique Tracking Number")
	mustSet(colSubscriber, layout.HeaderBottom, "Subscriber Name")
	mustSet(colSystemUser, layout.HeaderBottom, "System User")
	mustSet(colEnquiry, layout.HeaderBottom, "Subscriber Enquiry Date")
	mustSet(colProduct, layout.HeaderBottom, "Product")
	mustSet(colViewed, layout.HeaderBottom, "Details Viewed Date")
	mustSet(colOutput, layout.HeaderBottom, "Search Output")

	// Exemplar data row: bordered style plus the section's merge spans.
	borderStyle, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		t.Fatalf("exemplar style: %v", err)
	}
	for col := 1; col <= layout.MaxFormatCol; col++ {
		axis, err := excelize.CoordinatesToCellName(col, layout.ExemplarRow)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetCellStyle(sheet, axis, axis, borderStyle); err != nil {
			t.Fatalf("exemplar cell style: %v", err)
		}
	}
	for _, span := range dataRowMerges {
		mustMerge(span.start, layout.ExemplarRow, span.end, layout.ExemplarRow)
	}

	t.Cleanup(func() { f.Close() })
	return f, layout
}

func cellStr(t *testing.T, f *excelize.File, sheet string, col, row int) string {
	t.Helper()
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	value, err := f.GetCellValue(sheet, axis)
	if err != nil {
		t.Fatalf("get %s: %v", axis, err)
	}
	return value
}

func mergeCount(t *testing.T, f *excelize.File, sheet string, row int) int {
	t.Helper()
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatalf("get merges: %v", err)
	}
	count := 0
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			t.Fatalf("parse region: %v", err)
		}
		if region.startRow == row && region.endRow == row {
			count++
		}
	}
	return count
}
