// Package delivery serves per-wilaya delivery rates. Rates change
// rarely but are re-read on every checkout render, so listings go
// through a short-TTL Redis cache when one is configured.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/redis"
)

type rateLister interface {
	ListDeliveryRates(ctx context.Context) ([]backend.DeliveryRate, error)
	GetDeliveryRate(ctx context.Context, wilaya string) (*backend.DeliveryRate, error)
}

// Service exposes rate listings and single-wilaya lookups.
type Service interface {
	ListRates(ctx context.Context) ([]backend.DeliveryRate, error)
	RateFor(ctx context.Context, wilaya string) (*backend.DeliveryRate, error)
}

type service struct {
	upstream rateLister
	cache    *redis.Client
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the rate service; cache may be nil, in which case
// every read goes upstream.
func NewService(upstream rateLister, cache *redis.Client, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("rate lister required")
	}
	return &service{upstream: upstream, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

// ListRates returns the active rates, cheapest-path first from cache.
func (s *service) ListRates(ctx context.Context) ([]backend.DeliveryRate, error) {
	if cached, ok := s.cachedRates(ctx); ok {
		return cached, nil
	}

	rates, err := s.upstream.ListDeliveryRates(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]backend.DeliveryRate, 0, len(rates))
	for _, rate := range rates {
		if rate.Active {
			active = append(active, rate)
		}
	}

	s.storeRates(ctx, active)
	return active, nil
}

// RateFor resolves the rate for the shopper's wilaya. Unknown or
// inactive wilayas surface as not-found; the checkout then quotes a
// zero fee until a valid region is picked.
func (s *service) RateFor(ctx context.Context, wilaya string) (*backend.DeliveryRate, error) {
	trimmed := strings.TrimSpace(wilaya)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wilaya is required")
	}

	if cached, ok := s.cachedRates(ctx); ok {
		for _, rate := range cached {
			if strings.EqualFold(rate.Wilaya, trimmed) {
				found := rate
				return &found, nil
			}
		}
	}

	rate, err := s.upstream.GetDeliveryRate(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if !rate.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery to this wilaya is not available")
	}
	return rate, nil
}

func (s *service) cachedRates(ctx context.Context) ([]backend.DeliveryRate, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("delivery_rates"))
	if err != nil {
		return nil, false
	}
	var rates []backend.DeliveryRate
	if err := json.Unmarshal([]byte(raw), &rates); err != nil {
		return nil, false
	}
	return rates, true
}

// storeRates is best effort; a cache write failure only costs the
// next reader an upstream round trip.
func (s *service) storeRates(ctx context.Context, rates []backend.DeliveryRate) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey("delivery_rates"), string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "delivery rate cache write failed")
	}
}
