package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vkarpenko/shareit-go/api/controllers"
	"github.com/vkarpenko/shareit-go/api/middleware"
	"github.com/vkarpenko/shareit-go/internal/bookings"
	"github.com/vkarpenko/shareit-go/internal/items"
	"github.com/vkarpenko/shareit-go/internal/requests"
	"github.com/vkarpenko/shareit-go/internal/users"
	"github.com/vkarpenko/shareit-go/pkg/config"
	"github.com/vkarpenko/shareit-go/pkg/logger"
	"github.com/vkarpenko/shareit-go/pkg/metrics"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

// Params groups everything the router mounts.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       dbPinger
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	Users    users.Service
	Items    items.Service
	Requests requests.Service
	Bookings bookings.Service
}

// NewRouter wires middleware and routes. Sharer identity is required on
// every mutating route and the listing routes that scope by caller.
func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(p.Logger))
	r.Use(middleware.RequestID(p.Logger))
	r.Use(middleware.Metrics(p.Metrics))
	r.Use(middleware.Logging(p.Logger))

	r.Get("/health/live", controllers.HealthLive(p.Config))
	r.Get("/health/ready", controllers.HealthReady(p.Config, p.DB, p.Logger))
	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", controllers.CreateUser(p.Users, p.Logger))
		r.Get("/", controllers.ListUsers(p.Users, p.Logger))
		r.Get("/{userId}", controllers.GetUser(p.Users, p.Logger))
		r.Patch("/{userId}", controllers.UpdateUser(p.Users, p.Logger))
		r.Delete("/{userId}", controllers.DeleteUser(p.Users, p.Logger))
	})

	sharer := middleware.SharerID(p.Logger)

	r.Route("/items", func(r chi.Router) {
		r.Get("/search", controllers.SearchItems(p.Items, p.Logger))
		r.With(sharer).Post("/", controllers.CreateItem(p.Items, p.Logger))
		r.With(sharer).Get("/", controllers.ListOwnItems(p.Items, p.Logger))
		r.With(sharer).Get("/{itemId}", controllers.GetItem(p.Items, p.Logger))
		r.With(sharer).Patch("/{itemId}", controllers.UpdateItem(p.Items, p.Logger))
		r.With(sharer).Post("/{itemId}/comment", controllers.AddComment(p.Items, p.Logger))
	})

	r.Route("/requests", func(r chi.Router) {
		r.With(sharer).Post("/", controllers.CreateRequest(p.Requests, p.Logger))
		r.With(sharer).Get("/", controllers.ListOwnRequests(p.Requests, p.Logger))
		r.Get("/{requestId}", controllers.GetRequest(p.Requests, p.Logger))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(sharer)
		r.Post("/", controllers.CreateBooking(p.Bookings, p.Logger))
		r.Get("/", controllers.ListBookings(p.Bookings, p.Logger))
		r.Get("/owner", controllers.ListOwnerBookings(p.Bookings, p.Logger))
		r.Get("/{bookingId}", controllers.GetBooking(p.Bookings, p.Logger))
		r.Patch("/{bookingId}", controllers.ApproveBooking(p.Bookings, p.Logger))
	})

	return r
}
