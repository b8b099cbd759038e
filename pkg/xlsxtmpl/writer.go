package xlsxtmpl

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const isoDateLayout = "2006-01-02"

// numFmtText is the built-in "@" (text) number format.
const numFmtText = 49

// mergeRegion is a resolved merged-cell range.
type mergeRegion struct {
	startCol, startRow int
	endCol, endRow     int
}

func (m mergeRegion) contains(row, col int) bool {
	return row >= m.startRow && row <= m.endRow && col >= m.startCol && col <= m.endCol
}

func (m mergeRegion) startAxis() string {
	axis, _ := excelize.CoordinatesToCellName(m.startCol, m.startRow)
	return axis
}

func (m mergeRegion) endAxis() string {
	axis, _ := excelize.CoordinatesToCellName(m.endCol, m.endRow)
	return axis
}

// CellWriter writes values into cells that may be members of merged
// regions. Most spreadsheet tooling treats the non-anchor members of a
// merge as read-only; the writer transparently unmerges, writes to the
// anchor, restores the snapshotted style, and re-merges the same range.
type CellWriter struct {
	f *excelize.File
}

func NewCellWriter(f *excelize.File) *CellWriter {
	return &CellWriter{f: f}
}

// Write stores value at (row, col) on sheet, preserving merge topology and
// cell formatting. It does not fail for merged-member coordinates.
func (w *CellWriter) Write(sheet string, row, col int, value CellValue) error {
	region, err := w.regionAt(sheet, row, col)
	if err != nil {
		return err
	}

	targetRow, targetCol := row, col
	if region != nil {
		// Only the anchor holds the displayed value once re-merged.
		targetRow, targetCol = region.startRow, region.startCol
	}
	axis, err := excelize.CoordinatesToCellName(targetCol, targetRow)
	if err != nil {
		return err
	}

	styleID, err := w.f.GetCellStyle(sheet, axis)
	if err != nil {
		return err
	}

	if region != nil {
		if err := w.f.UnmergeCell(sheet, region.startAxis(), region.endAxis()); err != nil {
			return err
		}
	}

	if err := w.setValue(sheet, axis, value); err != nil {
		return err
	}

	// Restore the snapshotted style so the write never downgrades an
	// explicit format to General.
	if styleID != 0 {
		if err := w.f.SetCellStyle(sheet, axis, axis, styleID); err != nil {
			return err
		}
	}
	if value.kind == KindDate {
		if err := w.forceTextFormat(sheet, axis); err != nil {
			return err
		}
	}

	if region != nil {
		if err := w.f.MergeCell(sheet, region.startAxis(), region.endAxis()); err != nil {
			return err
		}
	}
	return nil
}

// WriteRowBanner writes text into the first merged range that lies entirely
// within row (the template's banner rows are wide single-row merges). When
// the row has no merge the text goes to fallbackCol instead.
func (w *CellWriter) WriteRowBanner(sheet string, row, fallbackCol int, text string) error {
	merges, err := w.f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		if region.startRow == row && region.endRow == row {
			return w.Write(sheet, row, region.startCol, Text(text))
		}
	}
	return w.Write(sheet, row, fallbackCol, Text(text))
}

func (w *CellWriter) setValue(sheet, axis string, value CellValue) error {
	switch value.kind {
	case KindEmpty:
		return w.f.SetCellStr(sheet, axis, "")
	case KindText:
		return w.f.SetCellStr(sheet, axis, value.text)
	case KindNumber:
		return w.f.SetCellValue(sheet, axis, value.number)
	case KindDate:
		// Force text format before writing so the host application never
		// reinterprets the ISO date as a date-time with a time component.
		if err := w.forceTextFormat(sheet, axis); err != nil {
			return err
		}
		return w.f.SetCellStr(sheet, axis, value.date.Format(isoDateLayout))
	default:
		return fmt.Errorf("xlsxtmpl: unknown cell value kind %d", value.kind)
	}
}

// forceTextFormat rewrites the cell's style with the text number format
// while keeping every other style attribute.
func (w *CellWriter) forceTextFormat(sheet, axis string) error {
	styleID, err := w.f.GetCellStyle(sheet, axis)
	if err != nil {
		return err
	}
	style, err := w.f.GetStyle(styleID)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}
	style.NumFmt = numFmtText
	style.CustomNumFmt = nil
	textStyle, err := w.f.NewStyle(style)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, axis, axis, textStyle)
}

// regionAt returns the merged region containing (row, col), or nil.
func (w *CellWriter) regionAt(sheet string, row, col int) (*mergeRegion, error) {
	merges, err := w.f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return nil, err
		}
		if region.contains(row, col) {
			return &region, nil
		}
	}
	return nil, nil
}

func parseRegion(m excelize.MergeCell) (mergeRegion, error) {
	sc, sr, err := excelize.CellNameToCoordinates(m.GetStartAxis())
	if err != nil {
		return mergeRegion{}, err
	}
	ec, er, err := excelize.CellNameToCoordinates(m.GetEndAxis())
	if err != nil {
		return mergeRegion{}, err
	}
	return mergeRegion{startCol: sc, startRow: sr, endCol: ec, endRow: er}, nil
}
