package xlsxtmpl

import (
	"github.com/xuri/excelize/v2"
)

const dataRowHeight = 25

// CloneRowFormat copies, per column 1..maxCol, the cell style (fonts,
// borders, fills, number format, alignment) from srcRow to dstRow on the
// same sheet, then recreates the merged ranges anchored at srcRow with the
// same column spans at dstRow. Pre-existing merges overlapping dstRow are
// cleared first to avoid merge conflicts.
func CloneRowFormat(f *excelize.File, sheet string, srcRow, dstRow, maxCol int) error {
	// Collect the source spans before touching any merge: when the
	// destination is the exemplar row itself, unmerging first would
	// erase the very spans being cloned.
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}

	type span struct{ start, end int }
	var spans []span
	seen := make(map[span]bool)
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		if region.startRow != srcRow || region.endRow != srcRow {
			continue
		}
		s := span{start: region.startCol, end: region.endCol}
		if !seen[s] {
			seen[s] = true
			spans = append(spans, s)
		}
	}

	if err := unmergeRow(f, sheet, dstRow); err != nil {
		return err
	}

	for col := 1; col <= maxCol; col++ {
		srcAxis, err := excelize.CoordinatesToCellName(col, srcRow)
		if err != nil {
			return err
		}
		dstAxis, err := excelize.CoordinatesToCellName(col, dstRow)
		if err != nil {
			return err
		}
		styleID, err := f.GetCellStyle(sheet, srcAxis)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, dstAxis, dstAxis, styleID); err != nil {
			return err
		}
	}

	for _, s := range spans {
		srcAnchor, err := excelize.CoordinatesToCellName(s.start, srcRow)
		if err != nil {
			return err
		}
		// Merged ranges default to centered content unless the template's
		// anchor cell states otherwise.
		horizontal, vertical := "center", "center"
		if styleID, err := f.GetCellStyle(sheet, srcAnchor); err == nil && styleID != 0 {
			if style, err := f.GetStyle(styleID); err == nil && style != nil && style.Alignment != nil {
				if style.Alignment.Horizontal != "" {
					horizontal = style.Alignment.Horizontal
				}
				if style.Alignment.Vertical != "" {
					vertical = style.Alignment.Vertical
				}
			}
		}
		for col := s.start; col <= s.end; col++ {
			if err := applyAlignment(f, sheet, dstRow, col, horizontal, vertical, false); err != nil {
				return err
			}
		}
		start, err := excelize.CoordinatesToCellName(s.start, dstRow)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(s.end, dstRow)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}
	return nil
}

// MergeAndCenterDataRow applies the template's fixed four-way merge pattern
// to a data row: subscriber name, system user, viewed date, and search
// output (the latter with wrapped text and top alignment).
func MergeAndCenterDataRow(f *excelize.File, sheet string, row int) error {
	if err := f.SetRowHeight(sheet, row, dataRowHeight); err != nil {
		return err
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		if region.startRow > row || region.endRow < row {
			continue
		}
		for _, span := range dataRowMerges {
			if region.startCol >= span.start && region.startCol <= span.end {
				if err := f.UnmergeCell(sheet, region.startAxis(), region.endAxis()); err != nil {
					return err
				}
				break
			}
		}
	}

	for _, span := range dataRowMerges {
		for col := span.start; col <= span.end; col++ {
			if err := applyAlignment(f, sheet, row, col, "center", span.vertical, span.wrap); err != nil {
				return err
			}
		}
		start, err := excelize.CoordinatesToCellName(span.start, row)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(span.end, row)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}
	return nil
}

// applyAlignment rewrites the cell style with the given alignment, keeping
// all other attributes of the existing style.
func applyAlignment(f *excelize.File, sheet string, row, col int, horizontal, vertical string, wrap bool) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return err
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}
	style.Alignment = &excelize.Alignment{
		Horizontal: horizontal,
		Vertical:   vertical,
		WrapText:   wrap,
	}
	newID, err := f.NewStyle(style)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, axis, axis, newID)
}

// unmergeRow clears every merged range that overlaps the given row.
func unmergeRow(f *excelize.File, sheet string, row int) error {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		if region.startRow <= row && row <= region.endRow {
			if err := f.UnmergeCell(sheet, region.startAxis(), region.endAxis()); err != nil {
				return err
			}
		}
	}
	return nil
}
