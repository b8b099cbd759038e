package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveDefaultRates(t *testing.T) {
	r := NewResolver(DefaultRates(), nil)

	assert.True(t, r.Resolve("Acme Bank", "consumer_basic_trace").Equal(decimal.RequireFromString("170.00")))
	assert.True(t, r.Resolve("Acme Bank", "enquiry_report").Equal(decimal.RequireFromString("50.00")))
	// Categories off the default card bill at zero.
	assert.True(t, r.Resolve("Acme Bank", "consumer_dud_cheque").IsZero())
	assert.True(t, r.Resolve("Acme Bank", "no_such_category").IsZero())
}

func TestResolveOverridePrecedence(t *testing.T) {
	r := NewResolver(DefaultRates(), []Override{
		{SubscriberName: "ACME BANK", ProductLabel: "Consumer Basic Trace", RawRate: "200.00"},
	})

	// Case-insensitive on both subscriber and product.
	assert.True(t, r.Resolve("acme bank", "consumer_basic_trace").Equal(decimal.RequireFromString("200.00")))
	// Other subscribers keep the default.
	assert.True(t, r.Resolve("Other Bank", "consumer_basic_trace").Equal(decimal.RequireFromString("170.00")))
	// Other categories for the same subscriber keep the default.
	assert.True(t, r.Resolve("Acme Bank", "enquiry_report").Equal(decimal.RequireFromString("50.00")))
}

func TestResolveMalformedOverrideFallsBack(t *testing.T) {
	r := NewResolver(DefaultRates(), []Override{
		{SubscriberName: "Acme Bank", ProductLabel: "Consumer Basic Trace", RawRate: "two hundred"},
		{SubscriberName: "Acme Bank", ProductLabel: "Enquiry Report", RawRate: ""},
	})

	assert.True(t, r.Resolve("Acme Bank", "consumer_basic_trace").Equal(decimal.RequireFromString("170.00")))
	assert.True(t, r.Resolve("Acme Bank", "enquiry_report").Equal(decimal.RequireFromString("50.00")))
}
