package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) *time.Time {
	t := time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestGroupByProductPartition(t *testing.T) {
	records := []UsageRecord{
		{ProductName: "Enquiry Report", SearchIdentity: "e1", DetailsViewedDate: date(9)},
		{ProductName: "Consumer Basic Trace", SearchIdentity: "b1", DetailsViewedDate: date(5)},
		{ProductName: "Consumer Basic Trace", SearchIdentity: "b2", DetailsViewedDate: date(2)},
		{ProductName: "Enquiry Report", SearchIdentity: "e2", DetailsViewedDate: nil},
		{ProductName: "Consumer Basic Trace", SearchIdentity: "b3", DetailsViewedDate: date(2)},
	}

	groups := GroupByProduct(records)
	require.Len(t, groups, 2)

	// Lexicographic group order.
	assert.Equal(t, "Consumer Basic Trace", groups[0].Name)
	assert.Equal(t, "Enquiry Report", groups[1].Name)

	// Every record appears in exactly one group.
	total := 0
	seen := map[string]bool{}
	for _, g := range groups {
		for _, r := range g.Records {
			total++
			assert.False(t, seen[r.SearchIdentity], "record %s duplicated", r.SearchIdentity)
			seen[r.SearchIdentity] = true
			assert.Equal(t, g.Name, r.ProductName)
		}
	}
	assert.Equal(t, len(records), total)

	// Viewed-date ascending within a group, stable for equal dates.
	trace := groups[0].Records
	assert.Equal(t, []string{"b2", "b3", "b1"},
		[]string{trace[0].SearchIdentity, trace[1].SearchIdentity, trace[2].SearchIdentity})

	// Undated records sort first.
	assert.Equal(t, "e2", groups[1].Records[0].SearchIdentity)
}

func TestGroupByProductEmpty(t *testing.T) {
	assert.Empty(t, GroupByProduct(nil))
}
