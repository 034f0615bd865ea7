package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/session"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

func main() {
	service := "storefront"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")

	sessionSecret := os.Getenv("SESSION_SECRET")
	if len(sessionSecret) < 32 {
		log.Fatal("SESSION_SECRET is required and must be at least 32 chars")
	}

	catalogStore := newCatalogStore(log)
	cartStore := newCartStore(log)

	deps := storefront.Deps{
		Catalog:  catalogStore,
		Cart:     cartStore,
		Sessions: session.NewMaker(sessionSecret),
	}

	reg := prometheus.NewRegistry()
	h := storefront.NewHandler(deps, storefront.HTTPDeps{
		Log:            log,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newCatalogStore(log *zap.Logger) catalog.Store {
	dsn := os.Getenv("CATALOG_DSN")
	if dsn == "" {
		log.Info("catalog store: memory")
		return catalog.NewMemStore()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("open catalog db failed", zap.Error(err))
	}

	log.Info("catalog store: postgres")
	return catalog.NewPostgresStore(db)
}

func newCartStore(log *zap.Logger) cart.Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info("cart store: memory")
		return cart.NewMemStore()
	}

	log.Info("cart store: redis", zap.String("addr", addr))
	return cart.NewRedisStore(addr)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
