package xlsxtmpl

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const trackingLabel = "Unique Tracking Number"

// DetailRow is one usage line within a product section.
type DetailRow struct {
	Subscriber   string
	SystemUser   string
	EnquiryDate  CellValue
	Product      string
	ViewedDate   CellValue
	SearchOutput string
}

// ProductSection is a product's header plus its ordered usage rows.
type ProductSection struct {
	Name string
	Rows []DetailRow
}

// headerCell is one captured template header cell.
type headerCell struct {
	value   string
	styleID int
	// merge spans, in rows/cols, when this cell anchors a merged range
	mergeRows, mergeCols int
}

// Replicator walks grouped product data and stamps one header-block clone
// plus N data rows per group into the workbook, advancing a running row
// cursor and switching to the overflow sheet when the cursor exceeds the
// primary sheet's row ceiling. The first group reuses the template's own
// header in place; subsequent groups get a clone of the original header
// rows (values, styles, and merge topology captured before any mutation).
type Replicator struct {
	f      *excelize.File
	layout TemplateLayout
	w      *CellWriter

	primary string
	sheet   string

	cursor     int
	serialBase int
	overflowed bool
	lastRow    int

	placeholderRow int
	placeholderCol int
	header         [][]headerCell
}

// NewReplicator locates the product-name placeholder and captures the
// pristine header block. It fails with ErrPlaceholderNotFound when the
// template has no placeholder cell.
func NewReplicator(f *excelize.File, layout TemplateLayout, sheet string) (*Replicator, error) {
	row, col, err := layout.FindPlaceholder(f, sheet)
	if err != nil {
		return nil, err
	}
	r := &Replicator{
		f:              f,
		layout:         layout,
		w:              NewCellWriter(f),
		primary:        sheet,
		sheet:          sheet,
		placeholderRow: row,
		placeholderCol: col,
	}
	if err := r.captureHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// Run replicates every section in order. Sections must already be sorted.
func (r *Replicator) Run(sections []ProductSection) error {
	for i, sec := range sections {
		if i == 0 {
			if err := r.w.Write(r.sheet, r.placeholderRow, r.placeholderCol, Text(sec.Name)); err != nil {
				return fmt.Errorf("write product name: %w", err)
			}
			r.cursor = r.layout.DataStartRow
			r.serialBase = r.layout.DataStartRow - 1
		} else {
			r.cursor += r.layout.SectionGap
			if err := r.cloneHeader(sec.Name); err != nil {
				return fmt.Errorf("clone section header for %q: %w", sec.Name, err)
			}
		}

		for _, row := range sec.Rows {
			if err := r.maybeOverflow(); err != nil {
				return err
			}
			if err := CloneRowFormat(r.f, r.sheet, r.layout.ExemplarRow, r.cursor, r.layout.MaxFormatCol); err != nil {
				return fmt.Errorf("clone row format: %w", err)
			}
			if err := r.writeDetailRow(row); err != nil {
				return err
			}
			if err := MergeAndCenterDataRow(r.f, r.sheet, r.cursor); err != nil {
				return err
			}
			r.lastRow = r.cursor
			r.cursor++
		}
	}
	return nil
}

// LastRow is the last row a data record was written to, or zero when no
// records were written.
func (r *Replicator) LastRow() int { return r.lastRow }

// ActiveSheet is the sheet the cursor currently points at.
func (r *Replicator) ActiveSheet() string { return r.sheet }

// Overflowed reports whether the replicator switched to the overflow sheet.
func (r *Replicator) Overflowed() bool { return r.overflowed }

// maybeOverflow switches the writer to the secondary sheet once the cursor
// passes the primary sheet's row ceiling. The switch happens at most once;
// the secondary sheet's own ceiling is assumed unreachable.
func (r *Replicator) maybeOverflow() error {
	if r.overflowed || r.cursor <= r.layout.MaxRow {
		return nil
	}
	if r.layout.OverflowSheet == "" {
		return nil
	}
	if idx, err := r.f.GetSheetIndex(r.layout.OverflowSheet); err != nil || idx < 0 {
		return nil
	}
	r.sheet = r.layout.OverflowSheet
	r.cursor = r.layout.OverflowStartRow
	r.serialBase = r.layout.OverflowSerialBase
	r.overflowed = true
	return nil
}

func (r *Replicator) writeDetailRow(d DetailRow) error {
	row := r.cursor
	writes := []struct {
		col   int
		value CellValue
	}{
		{colSerial, Int(row - r.serialBase)},
		{colBranch, Empty()},
		{colTracking, Empty()},
		{colSubscriber, Text(d.Subscriber)},
		{colSystemUser, Text(d.SystemUser)},
		{colEnquiry, d.EnquiryDate},
		{colProduct, Text(d.Product)},
		{colViewed, d.ViewedDate},
		{colOutput, Text(d.SearchOutput)},
	}
	for _, wr := range writes {
		if err := r.w.Write(r.sheet, row, wr.col, wr.value); err != nil {
			return fmt.Errorf("write cell (%d,%d): %w", row, wr.col, err)
		}
	}
	return nil
}

// captureHeader snapshots the template's header rows before any write
// touches them, so every clone reproduces the original, not a prior copy.
func (r *Replicator) captureHeader() error {
	merges, err := r.f.GetMergeCells(r.primary)
	if err != nil {
		return err
	}
	anchored := make(map[[2]int]mergeRegion)
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		anchored[[2]int{region.startRow, region.startCol}] = region
	}

	for row := r.layout.HeaderTop; row <= r.layout.HeaderBottom; row++ {
		var cells []headerCell
		for col := 1; col <= r.layout.HeaderCopyMaxCol; col++ {
			axis, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			value, err := r.f.GetCellValue(r.primary, axis)
			if err != nil {
				return err
			}
			styleID, err := r.f.GetCellStyle(r.primary, axis)
			if err != nil {
				return err
			}
			cell := headerCell{value: value, styleID: styleID}
			if region, ok := anchored[[2]int{row, col}]; ok {
				cell.mergeRows = region.endRow - region.startRow + 1
				cell.mergeCols = region.endCol - region.startCol + 1
			}
			cells = append(cells, cell)
		}
		r.header = append(r.header, cells)
	}
	return nil
}

// cloneHeader stamps the captured header block at the cursor, substitutes
// the product name into the placeholder position, advances the cursor past
// the block, and writes the tracking-number label above the data rows.
func (r *Replicator) cloneHeader(productName string) error {
	start := r.cursor
	for ri, cells := range r.header {
		target := start + ri
		if err := unmergeRow(r.f, r.sheet, target); err != nil {
			return err
		}
		for ci, cell := range cells {
			col := ci + 1
			axis, err := excelize.CoordinatesToCellName(col, target)
			if err != nil {
				return err
			}
			if cell.styleID != 0 {
				if err := r.f.SetCellStyle(r.sheet, axis, axis, cell.styleID); err != nil {
					return err
				}
			}

			isPlaceholder := r.layout.HeaderTop+ri == r.placeholderRow && col == r.placeholderCol
			switch {
			case isPlaceholder:
				if err := r.w.Write(r.sheet, target, col, Text(productName)); err != nil {
					return err
				}
			case cell.value != "":
				if err := r.w.Write(r.sheet, target, col, Text(cell.value)); err != nil {
					return err
				}
			}

			if cell.mergeCols > 0 {
				end, err := excelize.CoordinatesToCellName(col+cell.mergeCols-1, target+cell.mergeRows-1)
				if err != nil {
					return err
				}
				if err := r.f.MergeCell(r.sheet, axis, end); err != nil {
					return err
				}
			}
		}
	}

	r.cursor = start + len(r.header)
	r.serialBase = r.cursor - 1
	return r.w.Write(r.sheet, r.cursor-1, colTracking, Text(trackingLabel))
}
