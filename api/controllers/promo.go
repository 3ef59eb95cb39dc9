package controllers

import (
	"net/http"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	"github.com/nassimkhelifi/boutiqa-storefront/api/validators"
	promosvc "github.com/nassimkhelifi/boutiqa-storefront/internal/promo"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
)

type applyPromoRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

// PromoApply validates the code upstream and holds the result.
func PromoApply(svc promosvc.Validator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo validator unavailable"))
			return
		}

		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applied, err := svc.Apply(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, applied)
	}
}

// PromoRemove discards the applied promo.
func PromoRemove(svc promosvc.Validator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo validator unavailable"))
			return
		}

		if err := svc.Remove(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
