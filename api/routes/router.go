package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rmjobsites/jobsites-api/api/controllers"
	ordercontrollers "github.com/rmjobsites/jobsites-api/api/controllers/orders"
	"github.com/rmjobsites/jobsites-api/api/middleware"
	"github.com/rmjobsites/jobsites-api/internal/auth"
	"github.com/rmjobsites/jobsites-api/internal/catalog"
	"github.com/rmjobsites/jobsites-api/internal/customers"
	"github.com/rmjobsites/jobsites-api/internal/orders"
	"github.com/rmjobsites/jobsites-api/internal/rentals"
	"github.com/rmjobsites/jobsites-api/internal/servicerequests"
	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/config"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/metrics"
	"github.com/rmjobsites/jobsites-api/pkg/redis"
)

// redisStore is the slice of the redis client the HTTP layer needs.
type redisStore interface {
	redis.IdempotencyStore
	redis.RateLimiter
	redis.Pinger
}

// Dependencies carries the services mounted on the router.
type Dependencies struct {
	DB              controllers.Pinger
	Redis           redisStore
	Gatherer        prometheus.Gatherer
	Users           *users.Repository
	Auth            auth.Service
	Register        auth.RegisterService
	Catalog         catalog.Service
	Customers       customers.Service
	Orders          orders.Service
	ServiceRequests servicerequests.Service
	Rentals         rentals.Service
}

// NewRouter mounts every public and authenticated route.
func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	idempotent := middleware.Idempotency(deps.Redis, logg)
	requireAuth := middleware.Auth(cfg.JWT, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, logg)
	requireAdmin := middleware.RequireAdmin(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}, logg))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.Register, logg))
			r.With(requireAuth).Get("/profile", controllers.AuthProfile(deps.Auth, logg))
		})

		r.Get("/config/square", controllers.SquareConfig(cfg.Square))

		r.Get("/products", controllers.ProductList(deps.Catalog, logg))
		r.Get("/products/{id}", controllers.ProductDetail(deps.Catalog, logg))
		r.Get("/categories", controllers.CategoryList(deps.Catalog, logg))
		r.Get("/categories/{id}", controllers.CategoryDetail(deps.Catalog, logg))
		r.Get("/categories/{id}/products", controllers.CategoryProducts(deps.Catalog, logg))

		r.Route("/customers/{id}", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.CustomerShow(deps.Customers, logg))
			r.Put("/", controllers.CustomerUpdate(deps.Customers, logg))
			r.Get("/orders", controllers.CustomerOrders(deps.Customers, logg))
			r.Get("/cards", controllers.CustomerCards(deps.Customers, logg))
			r.Delete("/cards/{cardID}", controllers.CustomerDeleteCard(deps.Customers, logg))
		})

		r.With(requireAuth, requireAdmin).Get("/users/admins", controllers.UserAdmins(deps.Users, logg))

		r.Route("/service_requests", func(r chi.Router) {
			r.Use(optionalAuth)
			r.With(idempotent).Post("/", controllers.ServiceRequestCreate(deps.ServiceRequests, logg))
			r.With(requireAdmin).Get("/", controllers.ServiceRequestList(deps.ServiceRequests, logg))
			r.With(requireAdmin, idempotent).Post("/{id}/assign", controllers.ServiceRequestAssign(deps.ServiceRequests, logg))
		})

		r.Route("/equipment_rental_requests", func(r chi.Router) {
			r.Use(optionalAuth)
			r.With(idempotent).Post("/", controllers.RentalCreate(deps.Rentals, logg))
			r.With(requireAdmin).Get("/", controllers.RentalList(deps.Rentals, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(optionalAuth)
			r.With(idempotent).Post("/", ordercontrollers.Create(deps.Orders, deps.Users, logg))
			r.Post("/calculate", ordercontrollers.Calculate(deps.Orders, logg))
		})

		r.With(requireAuth, requireAdmin).
			Get("/admin/checkout-attempts", ordercontrollers.Attempts(deps.Orders, logg))
	})

	return r
}
