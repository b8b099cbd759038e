package domain

import (
	"sort"
	"time"
)

// UsageRecord is one billable usage event from the usage log. Records are
// read-only: the report pipeline groups and renders them, never mutates.
type UsageRecord struct {
	SubscriberID          string
	SubscriberName        string
	SystemUser            string
	SearchIdentity        string
	SubscriberEnquiryDate *time.Time
	SearchOutput          string
	DetailsViewedDate     *time.Time
	ProductInputed        string
	ProductName           string
}

// ProductGroup is all of one product's records, in viewed-date order.
type ProductGroup struct {
	Name    string
	Records []UsageRecord
}

// GroupByProduct partitions records by product name. Groups come back in
// lexicographic product order; records within a group keep ascending
// details-viewed-date order, with undated records first.
func GroupByProduct(records []UsageRecord) []ProductGroup {
	byProduct := make(map[string][]UsageRecord)
	for _, r := range records {
		byProduct[r.ProductName] = append(byProduct[r.ProductName], r)
	}

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]ProductGroup, 0, len(names))
	for _, name := range names {
		recs := byProduct[name]
		sort.SliceStable(recs, func(i, j int) bool {
			a, b := recs[i].DetailsViewedDate, recs[j].DetailsViewedDate
			switch {
			case a == nil && b == nil:
				return false
			case a == nil:
				return true
			case b == nil:
				return false
			default:
				return a.Before(*b)
			}
		})
		groups = append(groups, ProductGroup{Name: name, Records: recs})
	}
	return groups
}
