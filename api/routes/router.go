package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apmw/freshbrand-backend/api/controllers"
	"github.com/apmw/freshbrand-backend/api/middleware"
	"github.com/apmw/freshbrand-backend/internal/auth"
	"github.com/apmw/freshbrand-backend/internal/cart"
	"github.com/apmw/freshbrand-backend/internal/catalog"
	"github.com/apmw/freshbrand-backend/internal/designs"
	"github.com/apmw/freshbrand-backend/internal/orders"
	"github.com/apmw/freshbrand-backend/internal/payments"
	"github.com/apmw/freshbrand-backend/internal/users"
	"github.com/apmw/freshbrand-backend/pkg/auth/session"
	"github.com/apmw/freshbrand-backend/pkg/config"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/apmw/freshbrand-backend/pkg/metrics"
	"github.com/apmw/freshbrand-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	Storage     controllers.Pinger
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	Auth     auth.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Orders   orders.Service
	Payments payments.Service
	Designs  designs.Service
	Users    users.Service
}

// NewRouter wires middleware, controllers, and role guards into the API tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.Logging(logg),
		middleware.CORS(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis, p.Storage))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg), middleware.Idempotency(p.Redis, logg)).
			Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	// Catalog reads are public: the mobile client shows products before login.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(p.Catalog, logg))
		r.Get("/{productId}", controllers.ProductDetail(p.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.Cart, logg))
			r.Post("/", controllers.CartAdd(p.Cart, logg))
			r.Put("/{productId}", controllers.CartSetQuantity(p.Cart, logg))
			r.Delete("/{productId}", controllers.CartRemove(p.Cart, logg))
			r.Delete("/", controllers.CartClear(p.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(p.Orders, logg))
			r.Get("/", controllers.OrderList(p.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.Orders, logg))
			r.Route("/{orderId}/payment", func(r chi.Router) {
				r.Post("/checkout", controllers.PaymentCheckout(p.Payments, logg))
				r.Post("/confirm", controllers.PaymentConfirm(p.Payments, logg))
				r.Post("/fail", controllers.PaymentFail(p.Payments, logg))
			})
		})

		r.Route("/design", func(r chi.Router) {
			r.Get("/", controllers.DesignFetch(p.Designs, logg))
			r.Put("/", controllers.DesignSave(p.Designs, logg))
			r.Post("/logo", controllers.DesignUploadLogo(p.Designs, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(p.Users, logg))
			r.Put("/", controllers.ProfileUpdate(p.Users, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(p.Catalog, logg))
			r.Post("/", controllers.AdminProductCreate(p.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(p.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(p.Catalog, logg))
			r.Put("/{productId}/stock", controllers.AdminProductSetStock(p.Catalog, logg))
			r.Post("/{productId}/images", controllers.AdminProductUploadImage(p.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(p.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(p.Orders, logg))
			r.Patch("/{orderId}/delivery-date", controllers.AdminOrderUpdateDeliveryDate(p.Orders, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(p.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(p.Users, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(p.Users, logg))
			r.Patch("/{userId}/status", controllers.AdminUserSetStatus(p.Users, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(p.Users, logg))
		})
	})

	return r
}
