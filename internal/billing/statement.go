package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var vatRate = decimal.RequireFromString("0.075")

// Line is one billing-summary line: quantity of a category at its resolved
// rate.
type Line struct {
	CategoryKey string
	Quantity    int
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Statement is a subscriber's complete billing summary for a period.
type Statement struct {
	Lines     []Line
	Total     decimal.Decimal
	VAT       decimal.Decimal
	AmountDue decimal.Decimal
}

// BuildStatement prices the per-category usage counts with the resolver.
// Every category appears as a line, zero-quantity ones included, in the
// canonical category order. All arithmetic is exact decimal; rounding
// happens only at display time.
func BuildStatement(subscriberName string, counts map[string]int, resolver *Resolver) Statement {
	s := Statement{Total: decimal.Zero}
	for _, c := range Categories {
		qty := counts[c.Key]
		rate := resolver.Resolve(subscriberName, c.Key)
		amount := decimal.NewFromInt(int64(qty)).Mul(rate)
		s.Lines = append(s.Lines, Line{
			CategoryKey: c.Key,
			Quantity:    qty,
			Rate:        rate,
			Amount:      amount,
		})
		s.Total = s.Total.Add(amount)
	}
	s.VAT = s.Total.Mul(vatRate)
	s.AmountDue = s.Total.Add(s.VAT)
	return s
}

// FormatNaira renders a decimal as a naira currency string with thousands
// separators and two decimal places.
func FormatNaira(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	dot := strings.IndexByte(fixed, '.')
	whole, frac := fixed[:dot], fixed[dot:]

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := "₦" + b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
