package billing

import "strings"

// Category identifies one of the twelve billed product categories. The key
// doubles as the billing-summary row lookup key in the template layout.
type Category struct {
	Key   string
	Label string
	// lowercase substring that marks a product name as this category
	marker string
}

// Categories, most specific first. Classification walks this list in order
// so "X-Score Consumer Detailed Credit" never falls into the plain consumer
// "Detailed Credit" bucket, and the commercial variants win over their
// generic suffixes.
var Categories = []Category{
	{Key: "xscore_consumer_detailed_credit", Label: "X-Score Consumer Detailed Credit", marker: "x-score consumer detailed credit"},
	{Key: "commercial_basic_trace", Label: "Commercial Basic Trace", marker: "commercial basic trace"},
	{Key: "commercial_detailed_credit", Label: "Commercial Detailed Credit", marker: "commercial detailed credit"},
	{Key: "commercial_dud_cheque", Label: "Commercial Dud Cheque", marker: "commercial dud cheque"},
	{Key: "consumer_dud_cheque", Label: "Consumer Dud Cheque", marker: "consumer dud cheque"},
	{Key: "director_basic_report", Label: "Director Basic Report", marker: "director basic report"},
	{Key: "director_detailed_report", Label: "Director Detailed Report", marker: "director detailed report"},
	{Key: "consumer_snap_check", Label: "Consumer Snap Check", marker: "snap check"},
	{Key: "consumer_basic_trace", Label: "Consumer Basic Trace", marker: "basic trace"},
	{Key: "consumer_basic_credit", Label: "Consumer Basic Credit", marker: "basic credit"},
	{Key: "consumer_detailed_credit", Label: "Consumer Detailed Credit", marker: "detailed credit"},
	{Key: "enquiry_report", Label: "Enquiry Report", marker: "enquiry report"},
}

// Classify maps a raw product name to its category key, or "" when the name
// matches no category. Matching is case-insensitive substring containment;
// each product name lands in exactly one category.
func Classify(productName string) string {
	name := strings.ToLower(productName)
	for _, c := range Categories {
		if strings.Contains(name, c.marker) {
			return c.Key
		}
	}
	return ""
}

// CountByCategory tallies how many of the given product names fall into
// each category. Unclassifiable names are not counted.
func CountByCategory(productNames []string) map[string]int {
	counts := make(map[string]int, len(Categories))
	for _, name := range productNames {
		if key := Classify(name); key != "" {
			counts[key]++
		}
	}
	return counts
}

// LabelFor returns the display label for a category key.
func LabelFor(key string) string {
	for _, c := range Categories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
