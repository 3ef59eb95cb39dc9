package types

import "github.com/shopspring/decimal"

// Internal money math stays float64 to match the totals the legacy
// storefront produced; decimals are only used at the display boundary.

// FormatAmount renders an amount with two decimal places, the way the
// storefront shows dinar values.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// RoundAmount rounds an amount to two decimal places for payloads that
// leave the service (order submissions, quotes).
func RoundAmount(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}
