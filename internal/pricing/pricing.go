// Package pricing computes every money value the storefront shows.
// All functions are pure; callers recompute on any upstream change
// (cart edit, promo applied or removed, wilaya or delivery type change).
//
// Money math is float64 end to end, matching the totals the legacy
// storefront produced; rounding happens only at the display boundary.
package pricing

import (
	"math"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
)

// Delivery types accepted by DeliveryFee.
const (
	DeliveryHome   = "home"
	DeliveryOffice = "office"
)

// Line is the minimal cart-line view the engine needs.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// FinalUnitPrice applies the product-level flat promo. A product promo
// is a currency subtraction baked into the product itself, distinct
// from cart-level promo codes.
func FinalUnitPrice(product *backend.Product) float64 {
	if product == nil {
		return 0
	}
	if product.Promo > 0 {
		return product.Price - product.Promo
	}
	return product.Price
}

// DiscountPercent is the rounded badge percentage for a product-level
// promo. Display only; it never feeds back into the unit price.
func DiscountPercent(product *backend.Product) int {
	if product == nil || product.Promo <= 0 || product.Price <= 0 {
		return 0
	}
	return int(math.Round(product.Promo / product.Price * 100))
}

// Subtotal sums unit price times quantity over the cart lines.
func Subtotal(lines []Line) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// CartDiscount computes the discount a promo code takes off the
// subtotal. The percentage branch wins when both fields are set,
// preserving the upstream tie-break. A fixed discount never exceeds
// the subtotal, so totals cannot go negative.
func CartDiscount(subtotal float64, promo *backend.Promo) float64 {
	if promo == nil || subtotal <= 0 {
		return 0
	}
	if promo.Percentage != nil && *promo.Percentage > 0 {
		return subtotal * *promo.Percentage / 100
	}
	if promo.FixedAmount != nil && *promo.FixedAmount > 0 {
		return math.Min(*promo.FixedAmount, subtotal)
	}
	return 0
}

// DeliveryFee selects the home or office rate for the chosen wilaya;
// no rate loaded means no fee yet.
func DeliveryFee(rate *backend.DeliveryRate, deliveryType string) float64 {
	if rate == nil {
		return 0
	}
	if deliveryType == DeliveryOffice {
		return rate.OfficePrice
	}
	return rate.HomePrice
}

// GrandTotal is the amount submitted with the order.
func GrandTotal(subtotal, discount, deliveryFee float64) float64 {
	return subtotal - discount + deliveryFee
}
