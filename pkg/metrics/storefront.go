package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records the checkout-path counters the storefront exposes.
type StorefrontMetrics struct {
	cartMutations *prometheus.CounterVec
	promoApplies  *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
	quoteDuration prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	promoApplies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_applications_total",
		Help: "Promo code applications by outcome.",
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	quoteDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_quote_duration_seconds",
		Help:    "Duration of checkout quote computations in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(cartMutations, promoApplies, checkouts, quoteDuration)
	return &StorefrontMetrics{
		cartMutations: cartMutations,
		promoApplies:  promoApplies,
		checkouts:     checkouts,
		quoteDuration: quoteDuration,
	}
}

// IncCartMutation increments the cart mutation counter.
func (m *StorefrontMetrics) IncCartMutation(operation, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncPromoApplication increments the promo application counter.
func (m *StorefrontMetrics) IncPromoApplication(outcome string) {
	if m == nil || m.promoApplies == nil {
		return
	}
	m.promoApplies.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCheckout increments the checkout submission counter.
func (m *StorefrontMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveQuoteDuration records the duration of a quote computation.
func (m *StorefrontMetrics) ObserveQuoteDuration(duration time.Duration) {
	if m == nil || m.quoteDuration == nil {
		return
	}
	m.quoteDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
