package xlsxtmpl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"
)

// ErrPlaceholderNotFound is returned when the product-name anchor cell
// cannot be located in the template. The template is considered malformed
// and report generation must abort.
var ErrPlaceholderNotFound = errors.New("xlsxtmpl: product name placeholder cell not found in template")

// Data-row column map and merge topology of the billing template. These are
// fixed properties of the template's visual design, anchored relative to the
// discovered placeholder; they are not expected to vary per deployment.
const (
	colSerial     = 2  // B: running serial number
	colBranch     = 3  // C: branch id, left blank
	colTracking   = 4  // D: unique tracking number, left blank
	colSubscriber = 5  // E-F merged
	colSystemUser = 7  // G-I merged
	colEnquiry    = 10 // J: subscriber enquiry date as text
	colProduct    = 11 // K
	colViewed     = 12 // L-N merged
	colOutput     = 15 // O-Q merged, wrap text
)

// mergeSpan is an inclusive column range merged on every data row.
type mergeSpan struct {
	start, end int
	wrap       bool
	vertical   string
}

var dataRowMerges = []mergeSpan{
	{start: 5, end: 6, wrap: true, vertical: "center"},   // subscriber name
	{start: 7, end: 9, vertical: "center"},               // system user
	{start: 12, end: 14, vertical: "center"},             // details viewed date
	{start: 15, end: 17, wrap: true, vertical: "top"},    // search output
}

// WidthBounds carries per-column minimum and maximum widths for the
// auto-size pass. Columns absent from the maps use the defaults.
type WidthBounds struct {
	Min        map[int]float64 `yaml:"min"`
	Max        map[int]float64 `yaml:"max"`
	DefaultMin float64         `yaml:"default_min"`
	DefaultMax float64         `yaml:"default_max"`
}

func (b WidthBounds) minFor(col int) float64 {
	if w, ok := b.Min[col]; ok {
		return w
	}
	return b.DefaultMin
}

func (b WidthBounds) maxFor(col int) float64 {
	if w, ok := b.Max[col]; ok {
		return w
	}
	return b.DefaultMax
}

// TemplateLayout describes the static billing template: banner rows, the
// billing summary block, the repeating product-section template, and the
// overflow sheet geometry. Values are the template's as-shipped coordinates;
// deployments with a modified template can override them from a YAML file.
type TemplateLayout struct {
	TitleBannerRow   int `yaml:"title_banner_row"`
	TitleFallbackCol int `yaml:"title_fallback_col"`
	SubtitleRow      int `yaml:"subtitle_row"`
	SubtitleCol      int `yaml:"subtitle_col"`
	DateBannerRow    int `yaml:"date_banner_row"`
	DateFallbackCol  int `yaml:"date_fallback_col"`

	// Billing summary block: one row per product category.
	SummaryRows  map[string]int `yaml:"summary_rows"`
	QuantityCol  int            `yaml:"quantity_col"`
	RateCol      int            `yaml:"rate_col"`
	AmountCol    int            `yaml:"amount_col"`
	TotalRow     int            `yaml:"total_row"`
	VATRow       int            `yaml:"vat_row"`
	AmountDueRow int            `yaml:"amount_due_row"`

	// Repeating product-section template.
	HeaderTop        int `yaml:"header_top"`
	HeaderBottom     int `yaml:"header_bottom"`
	HeaderCopyMaxCol int `yaml:"header_copy_max_col"`
	ExemplarRow      int `yaml:"exemplar_row"`
	DataStartRow     int `yaml:"data_start_row"`
	SectionGap       int `yaml:"section_gap"`
	MaxFormatCol     int `yaml:"max_format_col"`

	// Overflow geometry.
	MaxRow             int    `yaml:"max_row"`
	OverflowSheet      string `yaml:"overflow_sheet"`
	OverflowStartRow   int    `yaml:"overflow_start_row"`
	OverflowSerialBase int    `yaml:"overflow_serial_base"`

	Widths WidthBounds `yaml:"widths"`
}

// DefaultLayout returns the layout of the stock billing template.
func DefaultLayout() TemplateLayout {
	return TemplateLayout{
		TitleBannerRow:   2,
		TitleFallbackCol: 5,
		SubtitleRow:      5,
		SubtitleCol:      4,
		DateBannerRow:    6,
		DateFallbackCol:  4,

		SummaryRows: map[string]int{
			"consumer_snap_check":             12,
			"consumer_basic_trace":            13,
			"consumer_basic_credit":           14,
			"consumer_detailed_credit":        15,
			"xscore_consumer_detailed_credit": 16,
			"commercial_basic_trace":          17,
			"commercial_detailed_credit":      18,
			"enquiry_report":                  20,
			"consumer_dud_cheque":             22,
			"commercial_dud_cheque":           23,
			"director_basic_report":           25,
			"director_detailed_report":        26,
		},
		QuantityCol:  9,
		RateCol:      13,
		AmountCol:    16,
		TotalRow:     28,
		VATRow:       29,
		AmountDueRow: 30,

		HeaderTop:        32,
		HeaderBottom:     35,
		HeaderCopyMaxCol: 15,
		ExemplarRow:      36,
		DataStartRow:     36,
		SectionGap:       4,
		MaxFormatCol:     17,

		MaxRow:             1000000,
		OverflowSheet:      "Sheet2",
		OverflowStartRow:   13,
		OverflowSerialBase: 12,

		Widths: WidthBounds{
			Min: map[int]float64{
				5: 10, 6: 10, 7: 9, 8: 10, 9: 9,
				10: 15, 11: 20, 12: 5, 13: 10, 14: 5,
			},
			Max: map[int]float64{
				12: 5, 13: 10, 14: 5,
				15: 40, 16: 40, 17: 40,
			},
			DefaultMin: 10,
			DefaultMax: 30,
		},
	}
}

// LoadLayout reads a YAML overlay on top of the default layout. Only keys
// present in the file are overridden.
func LoadLayout(path string) (TemplateLayout, error) {
	layout := DefaultLayout()
	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("read layout config: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("decode layout config: %w", err)
	}
	return layout, nil
}

// FindPlaceholder scans the header-block window for the cell whose text
// mentions "product"; that cell is the anchor of the repeating section.
func (l TemplateLayout) FindPlaceholder(f *excelize.File, sheet string) (row, col int, err error) {
	for r := l.HeaderTop; r <= l.HeaderBottom; r++ {
		for c := 1; c <= l.HeaderCopyMaxCol; c++ {
			axis, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return 0, 0, err
			}
			value, err := f.GetCellValue(sheet, axis)
			if err != nil {
				return 0, 0, err
			}
			if value != "" && strings.Contains(strings.ToLower(value), "product") {
				return r, c, nil
			}
		}
	}
	return 0, 0, ErrPlaceholderNotFound
}
