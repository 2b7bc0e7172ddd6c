package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markhallen/storefront/api/controllers"
	"github.com/markhallen/storefront/api/middleware"
	"github.com/markhallen/storefront/internal/auth"
	"github.com/markhallen/storefront/internal/cart"
	"github.com/markhallen/storefront/internal/catalog"
	"github.com/markhallen/storefront/pkg/auth/session"
	"github.com/markhallen/storefront/pkg/config"
	"github.com/markhallen/storefront/pkg/db"
	"github.com/markhallen/storefront/pkg/logger"
	"github.com/markhallen/storefront/pkg/metrics"
	"github.com/markhallen/storefront/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           redis.Pinger
	SessionChecker  session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	CatalogService  catalog.Service
	CartService     cart.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(p.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", controllers.ItemsList(p.CatalogService, logg))
		r.Get("/categories", controllers.ItemsCategories(p.CatalogService, logg))
		r.Get("/{itemId}", controllers.ItemsGet(p.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
			r.Post("/", controllers.ItemsCreate(p.CatalogService, logg))
			r.Put("/{itemId}", controllers.ItemsUpdate(p.CatalogService, logg))
			r.Delete("/{itemId}", controllers.ItemsDelete(p.CatalogService, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))
		r.Get("/", controllers.CartFetch(p.CartService, logg))
		r.Post("/add", controllers.CartAdd(p.CartService, logg))
		r.Put("/update", controllers.CartUpdate(p.CartService, logg))
		r.Delete("/remove", controllers.CartRemove(p.CartService, logg))
		r.Delete("/clear", controllers.CartClear(p.CartService, logg))
		r.Put("/sync", controllers.CartSync(p.CartService, logg))
	})

	return r
}
