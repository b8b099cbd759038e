package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineFor(t *testing.T, s Statement, key string) Line {
	t.Helper()
	for _, l := range s.Lines {
		if l.CategoryKey == key {
			return l
		}
	}
	t.Fatalf("no line for %s", key)
	return Line{}
}

// Three Consumer Basic Trace records and two Enquiry Reports on default
// rates: 3x170 + 2x50 = 610, VAT 45.75, due 655.75.
func TestStatementDefaultRates(t *testing.T) {
	counts := CountByCategory([]string{
		"Consumer Basic Trace", "Consumer Basic Trace", "Consumer Basic Trace",
		"Enquiry Report", "Enquiry Report",
	})
	s := BuildStatement("Acme Bank", counts, NewResolver(DefaultRates(), nil))

	require.Len(t, s.Lines, len(Categories))

	trace := lineFor(t, s, "consumer_basic_trace")
	assert.Equal(t, 3, trace.Quantity)
	assert.Equal(t, "510.00", trace.Amount.StringFixed(2))

	enquiry := lineFor(t, s, "enquiry_report")
	assert.Equal(t, 2, enquiry.Quantity)
	assert.Equal(t, "100.00", enquiry.Amount.StringFixed(2))

	assert.Equal(t, "610.00", s.Total.StringFixed(2))
	assert.Equal(t, "45.75", s.VAT.StringFixed(2))
	assert.Equal(t, "655.75", s.AmountDue.StringFixed(2))
}

// Same usage with a 200.00 override on Consumer Basic Trace: 600 + 100 =
// 700, VAT 52.50, due 752.50.
func TestStatementCustomOverride(t *testing.T) {
	counts := CountByCategory([]string{
		"Consumer Basic Trace", "Consumer Basic Trace", "Consumer Basic Trace",
		"Enquiry Report", "Enquiry Report",
	})
	resolver := NewResolver(DefaultRates(), []Override{
		{SubscriberName: "Acme Bank", ProductLabel: "Consumer Basic Trace", RawRate: "200.00"},
	})
	s := BuildStatement("Acme Bank", counts, resolver)

	assert.Equal(t, "600.00", lineFor(t, s, "consumer_basic_trace").Amount.StringFixed(2))
	assert.Equal(t, "700.00", s.Total.StringFixed(2))
	assert.Equal(t, "52.50", s.VAT.StringFixed(2))
	assert.Equal(t, "752.50", s.AmountDue.StringFixed(2))
}

func TestStatementVATIdentity(t *testing.T) {
	counts := map[string]int{
		"consumer_detailed_credit": 7,
		"commercial_basic_trace":   13,
	}
	s := BuildStatement("Acme Bank", counts, NewResolver(DefaultRates(), nil))

	// amount_due - total == vat, exactly.
	assert.True(t, s.AmountDue.Sub(s.Total).Equal(s.VAT))
}

func TestFormatNaira(t *testing.T) {
	cases := map[string]string{
		"0":          "₦0.00",
		"50":         "₦50.00",
		"655.75":     "₦655.75",
		"1000":       "₦1,000.00",
		"1234567.5":  "₦1,234,567.50",
		"-170":       "-₦170.00",
		"999999.999": "₦1,000,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNaira(decimal.RequireFromString(in)), "input %s", in)
	}
}
