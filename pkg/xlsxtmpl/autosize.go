package xlsxtmpl

import (
	"github.com/xuri/excelize/v2"
)

// AutoSize assigns column widths from the written cell contents, within the
// layout's per-column bounds. Merged cells attribute only a fraction of
// their text length to the anchor column so a long merged string does not
// inflate a single column: the two banner rows use a 40% share, the wrapped
// search-output merge 50%, and every other merge an even split with a floor
// of 10. Wrapped text columns get slightly more padding.
func AutoSize(f *excelize.File, sheet string, layout TemplateLayout) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	regions := make([]mergeRegion, 0, len(merges))
	for _, m := range merges {
		region, err := parseRegion(m)
		if err != nil {
			return err
		}
		regions = append(regions, region)
	}
	regionFor := func(row, col int) *mergeRegion {
		for i := range regions {
			if regions[i].contains(row, col) {
				return &regions[i]
			}
		}
		return nil
	}

	longest := make(map[int]float64)
	for ri, row := range rows {
		rowNum := ri + 1
		banner := rowNum == layout.TitleBannerRow || rowNum == layout.DateBannerRow
		for ci, cell := range row {
			col := ci + 1
			if col > layout.MaxFormatCol {
				break
			}
			if len(cell) == 0 {
				continue
			}
			n := float64(len(cell))
			if region := regionFor(rowNum, col); region != nil {
				span := float64(region.endCol - region.startCol + 1)
				switch {
				case banner:
					// Banner text contributes to its anchor column only,
					// and only a share of its length.
					if col != region.startCol {
						continue
					}
					n = n * 0.4
				case region.startCol >= colOutput && region.endCol <= layout.MaxFormatCol:
					n = n * 0.5
					if col != region.startCol {
						n = n / (span - 1)
					}
				default:
					n = n / span
					if n < 10 {
						n = 10
					}
				}
			} else if banner {
				continue
			}
			if n > longest[col] {
				longest[col] = n
			}
		}
	}

	for col := 1; col <= layout.MaxFormatCol; col++ {
		width := layout.Widths.minFor(col)
		if n, ok := longest[col]; ok && n > 0 {
			padding := 2.0
			if col >= colOutput && col <= layout.MaxFormatCol {
				padding = 3.0
			}
			width = n + padding
			if min := layout.Widths.minFor(col); width < min {
				width = min
			}
			if max := layout.Widths.maxFor(col); width > max {
				width = max
			}
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}
