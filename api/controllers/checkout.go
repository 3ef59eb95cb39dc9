package controllers

import (
	"net/http"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	"github.com/nassimkhelifi/boutiqa-storefront/api/validators"
	checkoutsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/checkout"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
)

type checkoutRequest struct {
	Wilaya        string `json:"wilaya" validate:"required"`
	Commune       string `json:"commune" validate:"required"`
	DeliveryType  string `json:"type_livraison" validate:"required,oneof=home office"`
	Address       string `json:"adresse" validate:"required"`
	CustomerName  string `json:"nom_client" validate:"required"`
	CustomerPhone string `json:"telephone" validate:"required"`
}

// CheckoutQuote recomputes the money view for the chosen wilaya and
// delivery type.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		query := r.URL.Query()
		quote, err := svc.Quote(r.Context(), query.Get("wilaya"), query.Get("type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit posts the order upstream and clears local state.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Submit(r.Context(), checkoutsvc.SubmitInput{
			Wilaya:        payload.Wilaya,
			Commune:       payload.Commune,
			DeliveryType:  payload.DeliveryType,
			Address:       payload.Address,
			CustomerName:  payload.CustomerName,
			CustomerPhone: payload.CustomerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}
