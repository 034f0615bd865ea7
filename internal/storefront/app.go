package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/contact"
	"Storefront/internal/session"
	"Storefront/internal/web"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog  catalog.Store
	Cart     cart.Store
	Sessions *session.Maker
}

const (
	readyTimeout       = 2 * time.Second
	contactLimitPerMin = 5
	limitWindow        = 60 * time.Second
)

// NewHandler assembles the whole storefront: the JSON API under /api, the
// HTML pages at the root, and the ops endpoints. The session middleware
// wraps everything that touches the cart.
func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	catalogSrv := &catalog.Server{Store: deps.Catalog, Log: httpDeps.Log}
	cartSrv := &cart.Server{Store: deps.Cart, Catalog: deps.Catalog, Log: httpDeps.Log}
	contactSrv := &contact.Server{Log: httpDeps.Log}
	webSrv := &web.Server{Catalog: deps.Catalog, Cart: deps.Cart, Log: httpDeps.Log}

	ensureCart := session.EnsureCart(deps.Sessions)
	contactLimiter := kit.NewIPRateLimiter(contactLimitPerMin, int(limitWindow.Seconds()))

	r.Route("/api", func(api chi.Router) {
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
		})

		api.Mount("/", catalogSrv.Routes())

		api.Group(func(pr chi.Router) {
			pr.Use(ensureCart)
			pr.Mount("/cart", cartSrv.Routes())
		})

		api.With(contactLimiter.Middleware).Post("/contact", contactSrv.SubmitHandler())
	})

	r.Group(func(pr chi.Router) {
		pr.Use(ensureCart)
		pr.Mount("/", webSrv.Routes())
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(kit.RoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := deps.Catalog.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: catalog", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
			return
		}

		if err := deps.Cart.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: cart", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "cart not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
