package domain

import "github.com/shopspring/decimal"

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "£"

// FormatMoney renders an amount with two decimal places, rounding half away
// from zero (1.995 becomes 2.00).
func FormatMoney(amount decimal.Decimal) string {
	return CurrencySymbol + amount.StringFixed(2)
}
