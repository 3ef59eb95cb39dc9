// Package checkout recomputes the money view of the cart and submits
// orders upstream. Quotes are stateless recomputations; any cart,
// promo or delivery change is reflected by simply asking again.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/nassimkhelifi/boutiqa-storefront/internal/cart"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/delivery"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/pricing"
	"github.com/nassimkhelifi/boutiqa-storefront/internal/promo"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/metrics"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/types"
)

type orderSubmitter interface {
	CreateOrder(ctx context.Context, order backend.OrderRequest) (*backend.OrderResponse, error)
}

// Quote is the money view shown on the checkout page.
type Quote struct {
	Items       []cart.Item           `json:"items"`
	Subtotal    float64               `json:"subtotal"`
	Discount    float64               `json:"discount"`
	DeliveryFee float64               `json:"deliveryFee"`
	GrandTotal  float64               `json:"grandTotal"`
	Promo       *backend.Promo        `json:"promo,omitempty"`
	Rate        *backend.DeliveryRate `json:"rate,omitempty"`

	// Display strings, rounded to two decimals.
	SubtotalDisplay   string `json:"subtotalDisplay"`
	GrandTotalDisplay string `json:"grandTotalDisplay"`
}

// SubmitInput carries the checkout form.
type SubmitInput struct {
	Wilaya        string
	Commune       string
	DeliveryType  string
	Address       string
	CustomerName  string
	CustomerPhone string
}

// Service quotes and submits checkouts.
type Service interface {
	Ping(ctx context.Context) error
	Quote(ctx context.Context, wilaya, deliveryType string) (*Quote, error)
	Submit(ctx context.Context, input SubmitInput) (*backend.OrderResponse, error)
}

type service struct {
	cart     cart.Service
	promos   promo.Validator
	rates    delivery.Service
	upstream orderSubmitter
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

// NewService wires the checkout orchestrator.
func NewService(cartSvc cart.Service, promos promo.Validator, rates delivery.Service, upstream orderSubmitter, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promo validator required")
	}
	if rates == nil {
		return nil, fmt.Errorf("delivery service required")
	}
	if upstream == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &service{
		cart:     cartSvc,
		promos:   promos,
		rates:    rates,
		upstream: upstream,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Ping reports readiness of the upstream dependency chain; the quote
// path itself is pure computation.
func (s *service) Ping(ctx context.Context) error {
	_, err := s.rates.ListRates(ctx)
	return err
}

// Quote recomputes subtotal, discount, delivery fee and grand total
// from the current cart, applied promo and chosen wilaya. An empty
// wilaya quotes a zero fee.
func (s *service) Quote(ctx context.Context, wilaya, deliveryType string) (*Quote, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuoteDuration(time.Since(start)) }()

	if deliveryType != "" && deliveryType != pricing.DeliveryHome && deliveryType != pricing.DeliveryOffice {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery type must be home or office")
	}

	items := s.cart.Items(ctx)

	var rate *backend.DeliveryRate
	if strings.TrimSpace(wilaya) != "" {
		found, err := s.rates.RateFor(ctx, wilaya)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				rate = nil
			} else {
				return nil, err
			}
		} else {
			rate = found
		}
	}

	applied := s.promos.Current(ctx)

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}

	subtotal := pricing.Subtotal(lines)
	discount := pricing.CartDiscount(subtotal, applied)
	fee := pricing.DeliveryFee(rate, deliveryType)
	total := pricing.GrandTotal(subtotal, discount, fee)

	return &Quote{
		Items:             items,
		Subtotal:          subtotal,
		Discount:          discount,
		DeliveryFee:       fee,
		GrandTotal:        total,
		Promo:             applied,
		Rate:              rate,
		SubtotalDisplay:   types.FormatAmount(subtotal),
		GrandTotalDisplay: types.FormatAmount(total),
	}, nil
}

// Submit validates the form, posts the order and clears cart and
// promo on success. Failed submissions are not retried; the shopper
// resubmits.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*backend.OrderResponse, error) {
	if err := validateSubmitInput(input); err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}

	items := s.cart.Items(ctx)
	if len(items) == 0 {
		s.metrics.IncCheckout("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	rate, err := s.rates.RateFor(ctx, input.Wilaya)
	if err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}

	applied := s.promos.Current(ctx)

	lines := make([]pricing.Line, 0, len(items))
	articles := make([]backend.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})

		article := backend.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Size:      item.Size,
		}
		if item.Color != nil {
			colorID := item.Color.ID
			article.ColorID = &colorID
		}
		articles = append(articles, article)
	}

	subtotal := pricing.Subtotal(lines)
	discount := pricing.CartDiscount(subtotal, applied)
	fee := pricing.DeliveryFee(rate, input.DeliveryType)
	total := pricing.GrandTotal(subtotal, discount, fee)

	order := backend.OrderRequest{
		Articles:       articles,
		Wilaya:         rate.Wilaya,
		Commune:        input.Commune,
		DeliveryType:   input.DeliveryType,
		Address:        input.Address,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		DiscountAmount: types.RoundAmount(discount),
		DeliveryFee:    types.RoundAmount(fee),
		Total:          types.RoundAmount(total),
	}
	if applied != nil {
		promoID := applied.ID
		order.PromoCodeID = &promoID
	}

	created, err := s.upstream.CreateOrder(ctx, order)
	if err != nil {
		s.metrics.IncCheckout("error")
		return nil, err
	}

	// The order exists upstream from here on; local cleanup failures
	// must not fail the submission. Both cleanups run regardless of
	// the other failing.
	cleanupErr := multierr.Append(s.cart.Clear(ctx), s.promos.Remove(ctx))
	if cleanupErr != nil && s.logg != nil {
		s.logg.Error(ctx, "clearing local state after order submission", cleanupErr)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": created.OrderID,
			"wilaya":   rate.Wilaya,
			"total":    types.FormatAmount(total),
		}), "order submitted")
	}
	s.metrics.IncCheckout("ok")
	return created, nil
}

func validateSubmitInput(input SubmitInput) error {
	missing := map[string]string{}
	if strings.TrimSpace(input.Wilaya) == "" {
		missing["wilaya"] = "is required"
	}
	if strings.TrimSpace(input.Commune) == "" {
		missing["commune"] = "is required"
	}
	if strings.TrimSpace(input.Address) == "" {
		missing["adresse"] = "is required"
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		missing["nom_client"] = "is required"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		missing["telephone"] = "is required"
	}
	if input.DeliveryType != pricing.DeliveryHome && input.DeliveryType != pricing.DeliveryOffice {
		missing["type_livraison"] = "must be home or office"
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout form incomplete").WithDetails(missing)
	}
	return nil
}
