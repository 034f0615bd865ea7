package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

// ProductSource resolves a submitted product ID into the product to
// snapshot. Any catalog.Store satisfies it.
type ProductSource interface {
	Get(ctx context.Context, id int64) (catalog.Product, bool, error)
}

type Server struct {
	Store   Store
	Catalog ProductSource
	Log     *zap.Logger
}

const maxAddBody = 1 << 20

type addReq struct {
	ProductID int64 `json:"product_id"`
}

type View struct {
	Items      []Line `json:"items"`
	TotalCents int64  `json:"total_cents"`
}

type purchaseResp struct {
	Message    string `json:"message"`
	TotalCents int64  `json:"total_cents"`
	ItemCount  int    `json:"item_count"`
}

const purchaseMessage = "thank you for your purchase"

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.view)
	r.Delete("/", s.clear)
	r.Post("/items", s.add)
	r.Delete("/items/{id}", s.remove)
	r.Post("/purchase", s.purchase)

	return r
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r, cartID, http.StatusOK)
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	req, err := decodeAddRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p, found, err := s.Catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("catalog lookup failed", zap.Error(err), zap.Int64("product_id", req.ProductID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", map[string]any{"product_id": req.ProductID})
		return
	}

	if err := s.Store.Append(r.Context(), cartID, LineFromProduct(p)); err != nil {
		s.writeStoreError(w, r, "append line", err)
		return
	}

	s.respondView(w, r, cartID, http.StatusCreated)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	if err := s.Store.RemoveProduct(r.Context(), cartID, productID); err != nil {
		s.writeStoreError(w, r, "remove product", err)
		return
	}

	s.respondView(w, r, cartID, http.StatusOK)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	if err := s.Store.Clear(r.Context(), cartID); err != nil {
		s.writeStoreError(w, r, "clear cart", err)
		return
	}

	s.respondView(w, r, cartID, http.StatusOK)
}

// purchase acknowledges with the total at purchase time and clears the cart.
// An empty cart purchases fine with a zero total; nothing is recorded.
func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	cartID, ok := s.cartID(w, r)
	if !ok {
		return
	}

	lines, err := s.Store.Get(r.Context(), cartID)
	if err != nil {
		s.writeStoreError(w, r, "read cart", err)
		return
	}

	if err := s.Store.Clear(r.Context(), cartID); err != nil {
		s.writeStoreError(w, r, "clear cart", err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, purchaseResp{
		Message:    purchaseMessage,
		TotalCents: TotalCents(lines),
		ItemCount:  len(lines),
	})
}

// Reaching a cart handler without the session middleware is a wiring bug.
func (s *Server) cartID(w http.ResponseWriter, r *http.Request) (string, bool) {
	cartID, ok := session.CartIDFromContext(r.Context())
	if !ok {
		if s.Log != nil {
			s.Log.Error("cart handler reached without session", zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "no session", nil)
		return "", false
	}
	return cartID, true
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, cartID string, status int) {
	lines, err := s.Store.Get(r.Context(), cartID)
	if err != nil {
		s.writeStoreError(w, r, "read cart", err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}

	kit.WriteJSON(w, status, View{Items: lines, TotalCents: TotalCents(lines)})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if s.Log != nil {
		s.Log.Error("cart store failed", zap.String("op", op), zap.Error(err))
	}
	if isTimeoutErr(err) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func decodeAddRequest(w http.ResponseWriter, r *http.Request) (addReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAddBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req addReq
	if err := dec.Decode(&req); err != nil {
		return addReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return addReq{}, errors.New("extra data after json object")
	}

	return req, nil
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
