package xlsxtmpl

import "time"

// CellValueKind enumerates the value shapes the cell writer accepts.
type CellValueKind int

const (
	KindEmpty CellValueKind = iota
	KindText
	KindNumber
	KindDate
)

// CellValue is a tagged variant for cell content. Dates get special
// treatment on write: they are stamped as ISO date text with an explicit
// text number format so Excel never reinterprets them as date-times.
type CellValue struct {
	kind   CellValueKind
	text   string
	number float64
	date   time.Time
}

func Empty() CellValue { return CellValue{kind: KindEmpty} }

func Text(s string) CellValue {
	if s == "" {
		return Empty()
	}
	return CellValue{kind: KindText, text: s}
}

func Number(n float64) CellValue { return CellValue{kind: KindNumber, number: n} }

func Int(n int) CellValue { return CellValue{kind: KindNumber, number: float64(n)} }

func Date(t time.Time) CellValue {
	if t.IsZero() {
		return Empty()
	}
	return CellValue{kind: KindDate, date: t}
}

// DatePtr builds a date value from an optional timestamp.
func DatePtr(t *time.Time) CellValue {
	if t == nil {
		return Empty()
	}
	return Date(*t)
}

func (v CellValue) Kind() CellValueKind { return v.kind }

// IsEmpty reports whether writing this value leaves the cell blank.
func (v CellValue) IsEmpty() bool { return v.kind == KindEmpty }
