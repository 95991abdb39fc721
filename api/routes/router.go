package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkeeper-dev/storefront-backend/api/controllers"
	"github.com/shopkeeper-dev/storefront-backend/api/middleware"
	"github.com/shopkeeper-dev/storefront-backend/internal/auth"
	"github.com/shopkeeper-dev/storefront-backend/internal/cart"
	"github.com/shopkeeper-dev/storefront-backend/internal/categories"
	"github.com/shopkeeper-dev/storefront-backend/internal/products"
	"github.com/shopkeeper-dev/storefront-backend/pkg/auth/session"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
	"github.com/shopkeeper-dev/storefront-backend/pkg/metrics"
	"github.com/shopkeeper-dev/storefront-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisClient     *redis.Client
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	AuthService     auth.Service
	CategoryService categories.Service
	ProductService  products.Service
	CartService     cart.Service
}

// NewRouter assembles the full route tree. Catalog reads are public; catalog
// writes require an admin session; cart routes require any session.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(p.HTTPMetrics),
	)

	authed := middleware.Auth(cfg.JWT, p.SessionChecker, logg)
	adminOnly := middleware.RequireAdmin(logg)

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

	var redisPinger controllers.Pinger
	if p.RedisClient != nil {
		redisPinger = p.RedisClient
	}
	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, p.DBPinger, redisPinger))
	if p.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", p.HTTPMetrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg)).
				Post("/register", controllers.AuthRegister(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).
				Post("/login", controllers.AuthLogin(p.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
				r.Get("/refresh", controllers.AuthRefresh(p.AuthService, logg))
				r.Get("/me", controllers.AuthMe(p.AuthService, logg))
			})
		})

		r.Get("/categories", controllers.CategoryList(p.CategoryService, logg))
		r.Get("/categories/{id}", controllers.CategoryShow(p.CategoryService, logg))
		r.Get("/products", controllers.ProductList(p.ProductService, logg))
		r.Get("/products/{id}", controllers.ProductShow(p.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, adminOnly)

			r.Post("/categories", controllers.CategoryCreate(p.CategoryService, cfg.Storage, logg))
			r.Patch("/categories/{id}", controllers.CategoryUpdate(p.CategoryService, logg))
			r.Patch("/categories/{id}/update-image", controllers.CategoryUpdateImage(p.CategoryService, cfg.Storage, logg))
			r.Delete("/categories/{id}", controllers.CategoryDelete(p.CategoryService, logg))

			r.Post("/products", controllers.ProductCreate(p.ProductService, cfg.Storage, logg))
			r.Patch("/products/{id}", controllers.ProductUpdate(p.ProductService, logg))
			r.Delete("/products/{id}", controllers.ProductDelete(p.ProductService, logg))

			r.Post("/product-options", controllers.ProductOptionCreate(p.ProductService, logg))
			r.Patch("/product-options/{id}", controllers.ProductOptionUpdate(p.ProductService, logg))
			r.Delete("/product-options/{id}", controllers.ProductOptionDelete(p.ProductService, logg))

			r.Patch("/product-images/{id}", controllers.ProductImageUpdate(p.ProductService, cfg.Storage, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Post("/cart-items", controllers.CartItemCreate(p.CartService, logg))
			r.Patch("/cart-items/{id}", controllers.CartItemUpdate(p.CartService, logg))
			r.Patch("/cart-items/{id}/quantity", controllers.CartItemUpdateQuantity(p.CartService, logg))
			r.Delete("/cart-items/{id}", controllers.CartItemDelete(p.CartService, logg))
			r.Delete("/cart/{id}", controllers.CartDelete(p.CartService, logg))
		})
	})

	return r
}
