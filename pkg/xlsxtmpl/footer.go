package xlsxtmpl

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const footerRowHeight = 26

// AddGeneratedBy stamps the "Report Generated by" attribution two rows
// below the last data row, merged over the search-output columns, in the
// template's footer typeface.
func AddGeneratedBy(f *excelize.File, sheet string, lastRow int, generatedBy string) error {
	row := lastRow + 2
	start, err := excelize.CoordinatesToCellName(colOutput, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(colOutput+2, row)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Report Generated by: %s", generatedBy)
	if err := f.SetCellStr(sheet, start, text); err != nil {
		return err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Trebuchet MS",
			Size:   10,
			Bold:   true,
			Italic: true,
			Color:  "7F7F7F",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, start, end, styleID); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, start, end); err != nil {
		return err
	}
	return f.SetRowHeight(sheet, row, footerRowHeight)
}
