package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/contact"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

const (
	contactLimitPerMin = 5
	limitWindow        = 60 * time.Second
)

type Server struct {
	Catalog catalog.Store
	Cart    cart.Store
	Log     *zap.Logger
}

type shell struct {
	Title      string
	ActivePath string
	Tabs       []Tab
}

func newShell(title, activePath string) shell {
	return shell{Title: title, ActivePath: activePath, Tabs: Tabs()}
}

type productsPage struct {
	shell
	Products []catalog.Product
}

type categoriesPage struct {
	shell
	Categories []string
}

type cartPage struct {
	shell
	Items          []cart.Line
	TotalCents     int64
	Purchased      bool
	PurchasedCents int64
}

type contactPage struct {
	shell
	Form      contact.Message
	Errors    kit.FieldErrors
	Submitted *contact.Message
}

// Routes expects session.EnsureCart upstream; cart handlers fail loudly
// without it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", redirectToProducts)
	r.NotFound(redirectToProducts)

	r.Get("/products", s.products)
	r.Get("/categories", s.categories)
	r.Get("/cart", s.cartView)
	r.Get("/contact", s.contactView)

	r.Post("/cart/items", s.addToCart)
	r.Post("/cart/items/{id}/remove", s.removeFromCart)
	r.Post("/cart/clear", s.clearCart)
	r.Post("/cart/purchase", s.purchase)

	contactLimiter := kit.NewIPRateLimiter(contactLimitPerMin, int(limitWindow.Seconds()))
	r.With(contactLimiter.Middleware).Post("/contact", s.submitContact)

	return r
}

// Both the "/" route and the unknown-path fallback land on Products.
func redirectToProducts(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/products", http.StatusFound)
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	list, err := s.Catalog.ListSortedByID(r.Context())
	if err != nil {
		s.fail(w, "list products", err)
		return
	}

	s.render(w, http.StatusOK, "products", productsPage{
		shell:    newShell("Products", "/products"),
		Products: list,
	})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	names, err := s.Catalog.Categories(r.Context())
	if err != nil {
		s.fail(w, "list categories", err)
		return
	}

	s.render(w, http.StatusOK, "categories", categoriesPage{
		shell:      newShell("Categories", "/categories"),
		Categories: names,
	})
}

func (s *Server) cartView(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	lines, err := s.Cart.Get(r.Context(), cartID)
	if err != nil {
		s.fail(w, "read cart", err)
		return
	}

	s.render(w, http.StatusOK, "cart", cartPage{
		shell:      newShell("Cart", "/cart"),
		Items:      lines,
		TotalCents: cart.TotalCents(lines),
	})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	// A malformed or unknown product ID means a hand-crafted form; both are
	// a no-op that lands back on the catalog.
	productID, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	p, found, err := s.Catalog.Get(r.Context(), productID)
	if err != nil {
		s.fail(w, "catalog lookup", err)
		return
	}
	if found {
		if err := s.Cart.Append(r.Context(), cartID, cart.LineFromProduct(p)); err != nil {
			s.fail(w, "append line", err)
			return
		}
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	if productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := s.Cart.RemoveProduct(r.Context(), cartID, productID); err != nil {
			s.fail(w, "remove product", err)
			return
		}
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	if err := s.Cart.Clear(r.Context(), cartID); err != nil {
		s.fail(w, "clear cart", err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// purchase thanks the user with the total at purchase time and clears the
// cart. An empty cart purchases fine with a zero total; nothing is recorded.
func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	lines, err := s.Cart.Get(r.Context(), cartID)
	if err != nil {
		s.fail(w, "read cart", err)
		return
	}

	if err := s.Cart.Clear(r.Context(), cartID); err != nil {
		s.fail(w, "clear cart", err)
		return
	}

	after, err := s.Cart.Get(r.Context(), cartID)
	if err != nil {
		s.fail(w, "read cart", err)
		return
	}

	s.render(w, http.StatusOK, "cart", cartPage{
		shell:          newShell("Cart", "/cart"),
		Items:          after,
		TotalCents:     cart.TotalCents(after),
		Purchased:      true,
		PurchasedCents: cart.TotalCents(lines),
	})
}

func (s *Server) contactView(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contact", contactPage{
		shell: newShell("Contact", "/contact"),
	})
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	msg := contact.Message{
		Name: r.PostFormValue("name"),
		Body: r.PostFormValue("message"),
	}

	if fields := msg.Validate(); fields != nil {
		s.render(w, http.StatusUnprocessableEntity, "contact", contactPage{
			shell:  newShell("Contact", "/contact"),
			Form:   msg,
			Errors: fields,
		})
		return
	}

	s.render(w, http.StatusOK, "contact", contactPage{
		shell:     newShell("Contact", "/contact"),
		Submitted: &msg,
	})
}

func (s *Server) cartID(w http.ResponseWriter, r *http.Request) (string, bool) {
	cartID, ok := session.CartIDFromContext(r.Context())
	if !ok {
		if s.Log != nil {
			s.Log.Error("page handler reached without session", zap.String("path", r.URL.Path))
		}
		http.Error(w, "no session", http.StatusInternalServerError)
		return "", false
	}
	return cartID, true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if s.Log != nil {
		s.Log.Error("page failed", zap.String("op", op), zap.Error(err))
	}
	http.Error(w, "server error", http.StatusInternalServerError)
}
