package session

import (
	"context"
	"net/http"
	"time"
)

const (
	CookieName = "cart_session"

	// A storefront session is a browser, not a login, so the TTL is generous.
	TTL = 30 * 24 * time.Hour
)

type ctxKey string

const cartIDKey ctxKey = "cart_id"

func CartIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(cartIDKey).(string)
	return v, ok
}

// EnsureCart injects the cookie's cart ID into the request context, minting
// a fresh session when the cookie is missing, expired, or tampered with.
func EnsureCart(m *Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(CookieName); err == nil {
				if claims, err := m.Parse(c.Value); err == nil && claims.CartID != "" {
					next.ServeHTTP(w, r.WithContext(withCartID(r.Context(), claims.CartID)))
					return
				}
			}

			cartID := NewCartID()
			tok, err := m.New(cartID, TTL)
			if err != nil {
				http.Error(w, "server error", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    tok,
				Path:     "/",
				MaxAge:   int(TTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(withCartID(r.Context(), cartID)))
		})
	}
}

func withCartID(ctx context.Context, cartID string) context.Context {
	return context.WithValue(ctx, cartIDKey, cartID)
}
