package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	deliverysvc "github.com/nassimkhelifi/boutiqa-storefront/internal/delivery"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
)

// DeliveryRates lists the active per-wilaya rates.
func DeliveryRates(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		rates, err := svc.ListRates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rates)
	}
}

// DeliveryRateDetail returns the rate for one wilaya.
func DeliveryRateDetail(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		wilaya := chi.URLParam(r, "wilaya")
		rate, err := svc.RateFor(r.Context(), wilaya)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rate)
	}
}
