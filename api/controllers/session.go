package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/nassimkhelifi/boutiqa-storefront/api/responses"
	"github.com/nassimkhelifi/boutiqa-storefront/api/validators"
	sessionsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/session"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
)

type saveSessionRequest struct {
	Token string          `json:"token" validate:"required"`
	User  json.RawMessage `json:"user" validate:"required"`
}

// SessionSave stores the token/user pair issued by the upstream API's
// login endpoint; the storefront only holds it, it never issues one.
func SessionSave(holder *sessionsvc.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if holder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session holder unavailable"))
			return
		}

		var payload saveSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := sessionsvc.Session{Token: payload.Token, User: payload.User}
		if err := holder.Save(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sess)
	}
}

// SessionFetch returns the current session or 401 once expired.
func SessionFetch(holder *sessionsvc.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if holder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session holder unavailable"))
			return
		}

		sess, err := holder.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess)
	}
}

// SessionClear drops the session, as on logout.
func SessionClear(holder *sessionsvc.Holder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if holder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session holder unavailable"))
			return
		}

		if err := holder.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
