package router

import (
	"net/http"
	"time"

	"localmart-be/internal/middleware"
	"localmart-be/internal/notify"
	"localmart-be/internal/order"
	"localmart-be/internal/product"
	"localmart-be/internal/user"
	"localmart-be/internal/utils"
	"localmart-be/internal/vendor"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	User    *user.Handler
	Product *product.Handler
	Order   *order.Handler
	Vendor  *vendor.Handler
	Hub     *notify.Hub
}

func New(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithIdentity)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", h.Hub.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			utils.WriteJSON(w, http.StatusOK, map[string]string{
				"message":   "LocalMart API is running!",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.User.Register)
			r.Post("/login", h.User.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", h.User.Me)
			r.Put("/me", h.User.UpdateMe)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", h.User.ListVendors)
			r.Get("/{id}", h.User.GetVendor)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.List)
			r.Get("/categories", h.Product.Categories)
			r.Get("/cities", h.Product.Cities)
			r.Get("/{id}", h.Product.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireRole(utils.RoleVendor))
				r.Post("/", h.Product.Create)
				r.Put("/{id}", h.Product.Update)
				r.Delete("/{id}", h.Product.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Order.Create)
			r.Get("/", h.Order.ListMine)
			r.Get("/{id}", h.Order.Get)
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(utils.RoleVendor))
			r.Get("/stats", h.Vendor.Stats)
			r.Get("/products", h.Product.MyProducts)
			r.Get("/orders", h.Order.ListForVendor)
			r.Patch("/orders/{id}/status", h.Order.UpdateStatus)
		})
	})

	return r
}
