package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const monthYearLayout = "January2006"

// SanitizeFilename replaces the characters Windows and zip tooling reject
// in file names.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
		"\"", "-", "<", "-", ">", "-", "|", "-",
	)
	return replacer.Replace(name)
}

// SingleReportFilename names a single-subscriber report file. The random
// suffix keeps repeated runs from colliding.
func SingleReportFilename(subscriberName string, periodStart time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx",
		SanitizeFilename(subscriberName),
		periodStart.Format(monthYearLayout),
		uuid.NewString()[:8])
}

// BulkMemberFilename names a report inside the bulk zip; members carry no
// random suffix.
func BulkMemberFilename(subscriberName string, periodStart time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx",
		SanitizeFilename(subscriberName),
		periodStart.Format(monthYearLayout))
}

// BulkZipFilename names the bulk archive itself.
func BulkZipFilename(periodStart time.Time) string {
	return fmt.Sprintf("all_subscriber_reports_%s_%s.zip",
		periodStart.Format(monthYearLayout),
		uuid.NewString()[:8])
}
