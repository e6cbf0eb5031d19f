package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenbasket/greenbasket-backend/api/controllers"
	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Health        *controllers.HealthController
	Products      *controllers.ProductsController
	Cart          *controllers.CartController
	Orders        *controllers.OrdersController
	Subscriptions *controllers.SubscriptionsController
	Wishlist      *controllers.WishlistController
	Reviews       *controllers.ReviewsController
}

// New assembles the HTTP router.
func New(ctrl Controllers, logg *logger.Logger, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.Logging(logg))
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CustomerIDHeader, middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", ctrl.Health.Live)
	r.Get("/readyz", ctrl.Health.Ready)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", ctrl.Products.List)
			r.Get("/{productKey}", ctrl.Products.Get)
			r.Get("/{productKey}/reviews", ctrl.Reviews.List)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCustomer(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", ctrl.Cart.Get)
				r.Delete("/", ctrl.Cart.Clear)
				r.Post("/items", ctrl.Cart.AddItem)
				r.Patch("/items/{productID}", ctrl.Cart.UpdateQuantity)
				r.Patch("/items/{productID}/subscription", ctrl.Cart.UpdateSubscription)
				r.Delete("/items/{productID}", ctrl.Cart.RemoveItem)
				r.Post("/coupon", ctrl.Cart.ApplyCoupon)
				r.Delete("/coupon", ctrl.Cart.RemoveCoupon)
				r.Post("/drawer", ctrl.Cart.Drawer)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", ctrl.Orders.Submit)
				r.Get("/", ctrl.Orders.List)
				r.Get("/{orderID}", ctrl.Orders.Get)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", ctrl.Subscriptions.List)
				r.Post("/{subscriptionID}/actions", ctrl.Subscriptions.Apply)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", ctrl.Wishlist.List)
				r.Post("/", ctrl.Wishlist.Add)
				r.Delete("/{productID}", ctrl.Wishlist.Remove)
			})

			r.Post("/products/{productKey}/reviews", ctrl.Reviews.Create)
		})
	})

	return r
}
