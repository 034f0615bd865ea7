package catalog

import "context"

type Product struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url"`
}

// Store is the read-only product catalog. The storefront never writes to it.
type Store interface {
	Ping(ctx context.Context) error
	ListSortedByID(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)
	Categories(ctx context.Context) ([]string, error)
}
