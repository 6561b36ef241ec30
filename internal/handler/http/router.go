package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mayankwalia/MyBasketBackend/pkg/health"
	"github.com/mayankwalia/MyBasketBackend/pkg/middleware"
)

// Handlers bundles the route handlers mounted by NewRouter.
type Handlers struct {
	Products   *ProductHandler
	Categories *CategoryHandler
	Cart       *CartHandler
	Orders     *OrderHandler
	Feedback   *FeedbackHandler
	Moderation *ModerationHandler
	Summaries  *SummaryHandler
	Users      *UserHandler
	Health     *health.Handler
}

// NewRouter builds the service's HTTP routes.
func NewRouter(h Handlers, serviceName string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(CapabilityExtractor)

	r.Get("/healthz", h.Health.LivenessHandler())
	r.Get("/readyz", h.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Post("/", h.Products.Create)
			r.Get("/{productID}", h.Products.Get)
			r.Put("/{productID}", h.Products.Update)
			r.Delete("/{productID}", h.Products.Delete)
			r.Get("/{productID}/feedback", h.Feedback.ListForProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Put("/{categoryID}", h.Categories.Rename)
			r.Get("/{categoryID}/products", h.Categories.Products)
		})

		r.Get("/manager/products", h.Products.ListMine)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.View)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Delete("/items/{productID}", h.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.Place)
			r.Get("/", h.Orders.Track)
			r.Get("/{orderID}", h.Orders.Get)
			r.Patch("/{orderID}/status", h.Orders.UpdateStatus)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", h.Feedback.Add)
			r.Delete("/{feedbackID}", h.Feedback.Delete)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.Moderation.Submit)
			r.Get("/", h.Moderation.List)
			r.Post("/{requestID}/approve", h.Moderation.Approve)
			r.Post("/{requestID}/decline", h.Moderation.Decline)
		})

		r.Route("/summaries", func(r chi.Router) {
			r.Get("/sales-by-category", h.Summaries.SalesByCategory)
			r.Get("/top-products", h.Summaries.TopProducts)
			r.Get("/order-status", h.Summaries.OrderStatusCounts)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.Users.Register)
			r.Get("/", h.Users.List)
			r.Put("/me/delivery", h.Users.UpdateDelivery)
			r.Post("/me/login", h.Users.RecordLogin)
			r.Get("/{userID}", h.Users.Get)
			r.Post("/{userID}/deactivate", h.Users.Deactivate)
			r.Post("/{userID}/reactivate", h.Users.Reactivate)
		})
	})

	return r
}
