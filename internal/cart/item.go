package cart

import (
	"fmt"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
)

// Item is one cart line. Unit price, stock ceiling and image are
// snapshots taken when the line was added; later product changes
// (price updates, restocks) deliberately do not flow back into the
// cart.
type Item struct {
	CartItemID    string         `json:"cartItemId"`
	ProductID     int64          `json:"productId"`
	Title         string         `json:"title"`
	UnitPrice     float64        `json:"unitPrice"`
	OriginalPrice float64        `json:"originalPrice"`
	ImageURL      string         `json:"imageUrl"`
	Quantity      int            `json:"quantity"`
	StockCeiling  int            `json:"stockCeiling"`
	Color         *backend.Color `json:"color,omitempty"`
	Size          string         `json:"size,omitempty"`
}

const defaultSegment = "default"

// ItemID derives the composite line identity. Lines for the same
// (product, color, size) merge by quantity; absent color or size
// collapses to a "default" segment.
func ItemID(productID, colorID int64, size string) string {
	colorSegment := defaultSegment
	if colorID != 0 {
		colorSegment = fmt.Sprintf("%d", colorID)
	}
	sizeSegment := size
	if sizeSegment == "" {
		sizeSegment = defaultSegment
	}
	return fmt.Sprintf("%d-%s-%s", productID, colorSegment, sizeSegment)
}
