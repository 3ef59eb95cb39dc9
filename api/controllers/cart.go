package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	"github.com/nassimkhelifi/boutiqa-storefront/api/validators"
	cartsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/cart"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID int64  `json:"productId" validate:"required,min=1"`
	ColorID   int64  `json:"colorId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type cartResponse struct {
	Items []cartsvc.Item `json:"items"`
	Count int            `json:"count"`
}

// CartFetch returns the current cart lines and badge count.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, cartResponse{
			Items: svc.Items(r.Context()),
			Count: svc.Count(r.Context()),
		})
	}
}

// CartAddItem adds or merges a variant into the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), cartsvc.AddInput{
			ProductID: payload.ProductID,
			ColorID:   payload.ColorID,
			Size:      payload.Size,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// CartSetQuantity sets a line's quantity; zero removes it.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartItemID := chi.URLParam(r, "cartItemId")
		if cartItemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetQuantity(r.Context(), cartItemID, *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{
			Items: svc.Items(r.Context()),
			Count: svc.Count(r.Context()),
		})
	}
}

// CartRemoveItem drops a line unconditionally.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartItemID := chi.URLParam(r, "cartItemId")
		if err := svc.Remove(r.Context(), cartItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{
			Items: svc.Items(r.Context()),
			Count: svc.Count(r.Context()),
		})
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: []cartsvc.Item{}, Count: 0})
	}
}
