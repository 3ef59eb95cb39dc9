// Package catalog answers availability questions about a product's
// per-variant stock rows. A variant is a (color, size) pair; stock is
// tracked at that grain upstream.
package catalog

import "github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"

// LowStockThreshold is the fixed quantity under which a color is
// flagged as low stock in listings.
const LowStockThreshold = 10

// Availability summarizes whether a color can be ordered at all.
type Availability struct {
	Available bool `json:"available"`
	Quantity  int  `json:"quantity"`
	LowStock  bool `json:"low_stock"`
}

// StockForVariant returns how many units of the (color, size) variant
// are orderable. Color is required for any lookup; with no size
// selected the count aggregates every size of that color. A product
// with no matching rows is simply out of stock, not an error.
func StockForVariant(product *backend.Product, colorID int64, size string) int {
	if product == nil || colorID == 0 {
		return 0
	}

	if size != "" {
		for _, record := range product.Stock {
			if record.ColorID == colorID && record.Size == size {
				return clampNonNegative(record.Quantity)
			}
		}
		return 0
	}

	total := 0
	for _, record := range product.Stock {
		if record.ColorID == colorID && record.Quantity > 0 {
			total += record.Quantity
		}
	}
	return total
}

// ColorAvailability reports whether any size of the color is in stock.
func ColorAvailability(product *backend.Product, colorID int64) Availability {
	quantity := StockForVariant(product, colorID, "")
	return Availability{
		Available: quantity > 0,
		Quantity:  quantity,
		LowStock:  quantity > 0 && quantity < LowStockThreshold,
	}
}

// TotalStock sums every stock row of the product. Products never
// migrated to per-variant rows fall back to the legacy scalar field.
func TotalStock(product *backend.Product) int {
	if product == nil {
		return 0
	}
	if len(product.Stock) == 0 {
		return clampNonNegative(product.LegacyQuantity)
	}

	total := 0
	for _, record := range product.Stock {
		if record.Quantity > 0 {
			total += record.Quantity
		}
	}
	return total
}

// HasColor reports whether the product offers the given color at all.
func HasColor(product *backend.Product, colorID int64) bool {
	if product == nil {
		return false
	}
	for _, color := range product.Colors {
		if color.ID == colorID {
			return true
		}
	}
	return false
}

// ColorByID returns the color definition for snapshotting onto cart lines.
func ColorByID(product *backend.Product, colorID int64) (backend.Color, bool) {
	if product == nil {
		return backend.Color{}, false
	}
	for _, color := range product.Colors {
		if color.ID == colorID {
			return color, true
		}
	}
	return backend.Color{}, false
}

func clampNonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
