// Package promo applies server-attested promo codes. The storefront
// never judges a code itself; it asks the upstream API and holds the
// returned discount shape for the duration of checkout.
package promo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/metrics"
)

type verifier interface {
	VerifyPromo(ctx context.Context, code string) (*backend.Promo, error)
}

// Validator holds the currently applied promo, if any.
type Validator interface {
	Apply(ctx context.Context, code string) (*backend.Promo, error)
	Remove(ctx context.Context) error
	Current(ctx context.Context) *backend.Promo
}

type validator struct {
	upstream verifier
	store    localstore.Store
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics

	mu      sync.Mutex
	applied *backend.Promo
}

// NewValidator restores any persisted promo and returns the validator.
func NewValidator(ctx context.Context, upstream verifier, store localstore.Store, logg *logger.Logger, m *metrics.StorefrontMetrics) (Validator, error) {
	if upstream == nil {
		return nil, fmt.Errorf("promo verifier required")
	}
	if store == nil {
		return nil, fmt.Errorf("local store required")
	}

	v := &validator{upstream: upstream, store: store, logg: logg, metrics: m}

	raw, err := store.Get(ctx, localstore.KeyPromo)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading persisted promo: %w", err)
	default:
		var persisted backend.Promo
		if err := json.Unmarshal(raw, &persisted); err == nil {
			v.applied = &persisted
		}
	}

	return v, nil
}

// Apply re-validates the code upstream even when it matches the one
// already held; a cached result is never trusted. Server rejection
// reasons pass through verbatim.
func (v *validator) Apply(ctx context.Context, code string) (*backend.Promo, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		v.metrics.IncPromoApplication("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	verified, err := v.upstream.VerifyPromo(ctx, trimmed)
	if err != nil {
		v.metrics.IncPromoApplication("rejected")
		return nil, err
	}

	payload, err := json.Marshal(verified)
	if err != nil {
		v.metrics.IncPromoApplication("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode promo")
	}
	if err := v.store.Put(ctx, localstore.KeyPromo, payload); err != nil {
		v.metrics.IncPromoApplication("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist promo")
	}

	v.mu.Lock()
	v.applied = verified
	v.mu.Unlock()

	if v.logg != nil {
		v.logg.Info(v.logg.WithPromoCode(ctx, verified.Code), "promo applied")
	}
	v.metrics.IncPromoApplication("ok")
	return verified, nil
}

// Remove discards the held promo; totals recompute with no discount.
func (v *validator) Remove(ctx context.Context) error {
	if err := v.store.Delete(ctx, localstore.KeyPromo); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear persisted promo")
	}
	v.mu.Lock()
	v.applied = nil
	v.mu.Unlock()
	return nil
}

// Current returns the applied promo or nil.
func (v *validator) Current(context.Context) *backend.Promo {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.applied == nil {
		return nil
	}
	promo := *v.applied
	return &promo
}
