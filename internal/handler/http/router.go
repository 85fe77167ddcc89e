package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/abundance/internal/service"
	"github.com/utafrali/abundance/internal/view"
	"github.com/utafrali/abundance/pkg/health"
	"github.com/utafrali/abundance/pkg/middleware"
)

// RouterConfig carries the dependencies of the basket service router.
type RouterConfig struct {
	Baskets      *service.Baskets
	Banners      BannerSource
	Renderer     *view.Renderer
	Health       *health.Handler
	Logger       *slog.Logger
	PprofCIDRs   []string
	SecureCookie bool
}

// NewRouter creates a chi router with all basket service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("basket"))
	r.Use(middleware.Tracing("basket"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	pages := NewPageHandler(cfg.Baskets, cfg.Banners, cfg.Renderer, logger)
	api := NewBasketHandler(cfg.Baskets, cfg.Banners, logger)

	// Storefront pages
	r.Group(func(r chi.Router) {
		r.Use(LimitBody)
		r.Use(BrowserSession(logger, cfg.SecureCookie))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/store", http.StatusFound)
		})
		r.Get("/store", pages.StorePage)
		r.Get("/basket", pages.BasketPage)

		r.Post("/basket/items", pages.AddItem)
		r.Post("/basket/items/{id}/quantity", pages.UpdateQuantity)
		r.Post("/basket/items/{id}/remove", pages.RemoveItem)
		r.Post("/basket/checkout", pages.Checkout)
	})

	// Basket API endpoints
	r.Route("/api/v1/basket", func(r chi.Router) {
		r.Use(LimitBody)
		r.Use(ContentTypeJSON)
		r.Use(APISession(logger))

		r.Get("/", api.GetBasket)
		r.Get("/notification", api.GetNotification)

		r.Post("/items", api.AddItem)
		r.Put("/items/{id}", api.UpdateItemQuantity)
		r.Delete("/items/{id}", api.RemoveItem)

		r.Post("/checkout", api.Checkout)
	})

	return r
}
