package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRates is the system-wide rate card, keyed by category key.
// Categories absent from the card bill at zero.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"consumer_snap_check":             decimal.RequireFromString("500.00"),
		"consumer_basic_trace":            decimal.RequireFromString("170.00"),
		"consumer_basic_credit":           decimal.RequireFromString("170.00"),
		"consumer_detailed_credit":        decimal.RequireFromString("240.00"),
		"xscore_consumer_detailed_credit": decimal.RequireFromString("500.00"),
		"commercial_basic_trace":          decimal.RequireFromString("275.00"),
		"commercial_detailed_credit":      decimal.RequireFromString("500.00"),
		"enquiry_report":                  decimal.RequireFromString("50.00"),
	}
}

// Override is one subscriber-specific rate. RawRate stays a string until
// resolution so a malformed stored value degrades to the default rate
// instead of failing the report.
type Override struct {
	SubscriberName string
	ProductLabel   string
	RawRate        string
}

// Resolver answers effective-rate lookups: subscriber override first,
// default card second.
type Resolver struct {
	defaults  map[string]decimal.Decimal
	overrides map[overrideKey]decimal.Decimal
}

type overrideKey struct {
	subscriber string
	product    string
}

// NewResolver builds a resolver from the default card and the subscriber's
// overrides. Overrides with unparsable rates are dropped here, which makes
// Resolve fall back to the default for them.
func NewResolver(defaults map[string]decimal.Decimal, overrides []Override) *Resolver {
	r := &Resolver{
		defaults:  defaults,
		overrides: make(map[overrideKey]decimal.Decimal, len(overrides)),
	}
	for _, o := range overrides {
		rate, err := decimal.NewFromString(strings.TrimSpace(o.RawRate))
		if err != nil {
			continue
		}
		key := overrideKey{
			subscriber: strings.ToLower(o.SubscriberName),
			product:    strings.ToLower(o.ProductLabel),
		}
		r.overrides[key] = rate
	}
	return r
}

// Resolve returns the billing rate for a subscriber and category key. The
// override table is consulted case-insensitively under the category's
// display label; unknown categories bill at 0.00.
func (r *Resolver) Resolve(subscriberName, categoryKey string) decimal.Decimal {
	key := overrideKey{
		subscriber: strings.ToLower(subscriberName),
		product:    strings.ToLower(LabelFor(categoryKey)),
	}
	if rate, ok := r.overrides[key]; ok {
		return rate
	}
	if rate, ok := r.defaults[categoryKey]; ok {
		return rate
	}
	return decimal.Zero
}
