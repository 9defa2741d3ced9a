package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes a display currency and its rate against USD.
type Currency struct {
	Code     string
	Symbol   string
	PerUSD   decimal.Decimal
	Decimals int32
}

var currencies = map[string]Currency{
	"USD": {"USD", "$", decimal.NewFromInt(1), 2},
	"EUR": {"EUR", "€", decimal.RequireFromString("0.92"), 2},
	"GBP": {"GBP", "£", decimal.RequireFromString("0.79"), 2},
	"INR": {"INR", "₹", decimal.RequireFromString("83.20"), 2},
	"JPY": {"JPY", "¥", decimal.RequireFromString("149.50"), 0},
	"CNY": {"CNY", "¥", decimal.RequireFromString("7.24"), 2},
	"CAD": {"CAD", "C$", decimal.RequireFromString("1.36"), 2},
	"AUD": {"AUD", "A$", decimal.RequireFromString("1.52"), 2},
}

// LookupCurrency resolves a currency code. Unknown codes fall back to USD
// and ok is false.
func LookupCurrency(code string) (c Currency, ok bool) {
	c, ok = currencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return currencies["USD"], false
	}
	return c, true
}

// ConvertFromUSD converts a USD amount into code, rounded to the currency's
// minor unit.
func ConvertFromUSD(amountUSD float64, code string) (decimal.Decimal, Currency) {
	c, _ := LookupCurrency(code)
	return decimal.NewFromFloat(amountUSD).Mul(c.PerUSD).Round(c.Decimals), c
}
