package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nassimkhelifi/boutiqa-storefront/api/controllers"
	"github.com/nassimkhelifi/boutiqa-storefront/api/middleware"
	cartsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/cart"
	checkoutsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/checkout"
	deliverysvc "github.com/nassimkhelifi/boutiqa-storefront/internal/delivery"
	promosvc "github.com/nassimkhelifi/boutiqa-storefront/internal/promo"
	sessionsvc "github.com/nassimkhelifi/boutiqa-storefront/internal/session"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/backend"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/config"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/redis"
)

type productLoader interface {
	GetProduct(ctx context.Context, productID int64) (*backend.Product, error)
}

// Deps bundles everything the router wires together.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	LocalStore   localstore.Pinger
	Redis        *redis.Client
	Products     productLoader
	Cart         cartsvc.Service
	Promo        promosvc.Validator
	Delivery     deliverysvc.Service
	Checkout     checkoutsvc.Service
	Session      *sessionsvc.Holder
	PromRegistry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS.AllowedOrigins),
	)

	readiness := []controllers.Pinger{deps.LocalStore}
	if deps.Redis != nil {
		readiness = append(readiness, deps.Redis)
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, readiness...))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Logger))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Logger))
			r.Patch("/items/{cartItemId}", controllers.CartSetQuantity(deps.Cart, deps.Logger))
			r.Delete("/items/{cartItemId}", controllers.CartRemoveItem(deps.Cart, deps.Logger))
		})

		r.Route("/promo", func(r chi.Router) {
			r.Post("/", controllers.PromoApply(deps.Promo, deps.Logger))
			r.Delete("/", controllers.PromoRemove(deps.Promo, deps.Logger))
		})

		r.Route("/delivery-rates", func(r chi.Router) {
			r.Get("/", controllers.DeliveryRates(deps.Delivery, deps.Logger))
			r.Get("/{wilaya}", controllers.DeliveryRateDetail(deps.Delivery, deps.Logger))
		})

		r.Get("/products/{productId}/availability", controllers.ProductAvailability(deps.Products, deps.Logger))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", controllers.CheckoutQuote(deps.Checkout, deps.Logger))
			r.Post("/", controllers.CheckoutSubmit(deps.Checkout, deps.Logger))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionFetch(deps.Session, deps.Logger))
			r.Post("/", controllers.SessionSave(deps.Session, deps.Logger))
			r.Delete("/", controllers.SessionClear(deps.Session, deps.Logger))
		})
	})

	return r
}
