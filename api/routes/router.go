package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/decantly/decantly-backend/api/controllers"
	"github.com/decantly/decantly-backend/api/middleware"
	"github.com/decantly/decantly-backend/internal/auth"
	"github.com/decantly/decantly-backend/internal/cart"
	"github.com/decantly/decantly-backend/internal/catalog"
	"github.com/decantly/decantly-backend/internal/guestcart"
	"github.com/decantly/decantly-backend/internal/guestorders"
	"github.com/decantly/decantly-backend/internal/orders"
	"github.com/decantly/decantly-backend/pkg/config"
	"github.com/decantly/decantly-backend/pkg/db"
	"github.com/decantly/decantly-backend/pkg/logger"
	"github.com/decantly/decantly-backend/pkg/metrics"
	"github.com/decantly/decantly-backend/pkg/redis"
)

// Services bundles every domain service the router exposes.
type Services struct {
	Catalog     catalog.Service
	GuestCart   guestcart.Service
	GuestOrders guestorders.Service
	Auth        auth.Service
	Cart        cart.Service
	Orders      orders.Service
}

// NewRouter wires the full HTTP surface: storefront endpoints, auth, health
// and metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ping", controllers.PublicPing())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.ProductGet(svcs.Catalog, logg))
		r.Post("/", controllers.ProductCreate(svcs.Catalog, logg))
		r.Put("/{productId}", controllers.ProductUpdate(svcs.Catalog, logg))
		r.Delete("/{productId}", controllers.ProductDelete(svcs.Catalog, logg))
	})

	r.Route("/guest-cart", func(r chi.Router) {
		r.Post("/add", controllers.GuestCartAdd(svcs.GuestCart, logg))
		r.Get("/", controllers.GuestCartGet(svcs.GuestCart, logg))
		r.Put("/update", controllers.GuestCartUpdate(svcs.GuestCart, logg))
		r.Delete("/{itemId}", controllers.GuestCartRemove(svcs.GuestCart, logg))
	})

	r.Route("/guest-orders", func(r chi.Router) {
		r.Post("/", controllers.GuestOrderCreate(svcs.GuestOrders, logg))
		r.Get("/{orderId}", controllers.GuestOrderGet(svcs.GuestOrders, logg))
		r.Put("/{orderId}/status", controllers.GuestOrderUpdateStatus(svcs.GuestOrders, logg))
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/create-from-guest", controllers.AuthCreateFromGuest(svcs.Auth, logg))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/add", controllers.CartAdd(svcs.Cart, logg))
		r.Get("/{userId}", controllers.CartGet(svcs.Cart, logg))
		r.Put("/update", controllers.CartUpdate(svcs.Cart, logg))
		r.Delete("/remove", controllers.CartRemove(svcs.Cart, logg))
	})

	r.Post("/orders/create", controllers.OrderCreate(svcs.Orders, logg))

	return r
}
