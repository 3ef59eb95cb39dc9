package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/catalog"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/pricing"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/types"
)

type productLoader interface {
	GetProduct(ctx context.Context, productID int64) (*backend.Product, error)
}

type availabilityResponse struct {
	ProductID       int64              `json:"productId"`
	TotalStock      int                `json:"totalStock"`
	FinalUnitPrice  float64            `json:"finalUnitPrice"`
	PriceDisplay    string             `json:"priceDisplay"`
	DiscountPercent int                `json:"discountPercent"`
	Color           *colorAvailability `json:"color,omitempty"`
	VariantStock    *int               `json:"variantStock,omitempty"`
}

type colorAvailability struct {
	ColorID int64 `json:"colorId"`
	catalog.Availability
}

// ProductAvailability answers "can this variant be ordered, and at
// what price" for the product page. Color and size are query params;
// both optional.
func ProductAvailability(products productLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product loader unavailable"))
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil || productID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		product, err := products.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := availabilityResponse{
			ProductID:       product.ID,
			TotalStock:      catalog.TotalStock(product),
			FinalUnitPrice:  pricing.FinalUnitPrice(product),
			PriceDisplay:    types.FormatAmount(pricing.FinalUnitPrice(product)),
			DiscountPercent: pricing.DiscountPercent(product),
		}

		if rawColor := r.URL.Query().Get("color"); rawColor != "" {
			colorID, err := strconv.ParseInt(rawColor, 10, 64)
			if err != nil || !catalog.HasColor(product, colorID) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown color for product"))
				return
			}
			resp.Color = &colorAvailability{
				ColorID:      colorID,
				Availability: catalog.ColorAvailability(product, colorID),
			}
			if size := r.URL.Query().Get("size"); size != "" {
				variant := catalog.StockForVariant(product, colorID, size)
				resp.VariantStock = &variant
			}
		}

		responses.WriteSuccess(w, resp)
	}
}
