package report

import (
	"errors"
	"fmt"
)

// TemplateError marks a malformed or unreadable billing template. Fatal for
// the report being generated; in bulk mode only that subscriber is skipped.
type TemplateError struct {
	Reason string
	Err    error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("template: %s", e.Reason)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// ValidationError marks bad caller input, detected before any workbook is
// touched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// DataWarning is the non-fatal "nothing to report" outcome: the request was
// valid but produced no file.
type DataWarning struct {
	Msg string
}

func (e *DataWarning) Error() string { return e.Msg }

// IsWarning reports whether err is a DataWarning rather than a failure.
func IsWarning(err error) bool {
	var w *DataWarning
	return errors.As(err, &w)
}
