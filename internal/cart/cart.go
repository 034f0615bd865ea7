package cart

import (
	"context"

	"Storefront/internal/catalog"
)

// Line is a snapshot of the product at the moment it was added. Adding the
// same product twice yields two independent lines.
type Line struct {
	ProductID  int64  `json:"product_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url"`
}

func LineFromProduct(p catalog.Product) Line {
	return Line{
		ProductID:  p.ID,
		Title:      p.Title,
		PriceCents: p.PriceCents,
		ImageURL:   p.ImageURL,
	}
}

// TotalCents is recomputed from the lines on every read; no store keeps a
// running total.
func TotalCents(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.PriceCents
	}
	return total
}

// Store holds one line sequence per cart session. RemoveProduct drops every
// line whose product ID matches, a no-op when none do.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, cartID string) ([]Line, error)
	Append(ctx context.Context, cartID string, l Line) error
	RemoveProduct(ctx context.Context, cartID string, productID int64) error
	Clear(ctx context.Context, cartID string) error
}
