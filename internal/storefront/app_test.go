package storefront_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/session"
	"Storefront/internal/storefront"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newStorefrontTS(t *testing.T, httpDeps storefront.HTTPDeps) *httptest.Server {
	t.Helper()

	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}

	h := storefront.NewHandler(storefront.Deps{
		Catalog:  catalog.NewMemStore(),
		Cart:     cart.NewMemStore(),
		Sessions: session.NewMaker(testSecret),
	}, httpDeps)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestStorefront_PublicAPI_HappyPath(t *testing.T) {
	ts := newStorefrontTS(t, storefront.HTTPDeps{
		// Registry: nil
	})

	c := newJarClient(t)

	{
		resp, _ := doJSON(t, c, http.MethodGet, ts.URL+"/healthz", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("healthz status=%d", resp.StatusCode)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/readyz", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("readyz status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/api/products", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("products status=%d body=%s", resp.StatusCode, string(raw))
		}

		var products []catalog.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			t.Fatalf("decode products: %v body=%s", err, string(raw))
		}
		if len(products) != 6 {
			t.Fatalf("products=%d want=6", len(products))
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/api/categories", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("categories status=%d body=%s", resp.StatusCode, string(raw))
		}

		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			t.Fatalf("decode categories: %v body=%s", err, string(raw))
		}
		if len(names) != 4 {
			t.Fatalf("categories=%d want=4", len(names))
		}
	}

	for _, id := range []int64{1, 2} {
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/cart/items", map[string]any{"product_id": id}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodDelete, ts.URL+"/api/cart/items/1", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("remove status=%d body=%s", resp.StatusCode, string(raw))
		}

		var v cart.View
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("decode view: %v body=%s", err, string(raw))
		}
		if len(v.Items) != 1 || v.TotalCents != 1990 {
			t.Fatalf("view=%+v", v)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/cart/purchase", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("purchase status=%d body=%s", resp.StatusCode, string(raw))
		}

		var pr struct {
			Message    string `json:"message"`
			TotalCents int64  `json:"total_cents"`
			ItemCount  int    `json:"item_count"`
		}
		if err := json.Unmarshal(raw, &pr); err != nil {
			t.Fatalf("decode purchase: %v body=%s", err, string(raw))
		}
		if pr.Message == "" || pr.TotalCents != 1990 || pr.ItemCount != 1 {
			t.Fatalf("purchase=%+v", pr)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/api/cart", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("view status=%d body=%s", resp.StatusCode, string(raw))
		}

		var v cart.View
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("decode view: %v body=%s", err, string(raw))
		}
		if len(v.Items) != 0 || v.TotalCents != 0 {
			t.Fatalf("cart after purchase=%+v", v)
		}
	}
}

func TestStorefront_API_UnknownRouteIsJSON404(t *testing.T) {
	ts := newStorefrontTS(t, storefront.HTTPDeps{})

	resp, raw := doJSON(t, &http.Client{}, http.MethodGet, ts.URL+"/api/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var er struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if er.Error != "not found" {
		t.Fatalf("error=%q", er.Error)
	}
}

func TestStorefront_Contact(t *testing.T) {
	ts := newStorefrontTS(t, storefront.HTTPDeps{})

	{
		resp, raw := doJSON(t, &http.Client{}, http.MethodPost, ts.URL+"/api/contact", map[string]any{
			"name":    "Ada",
			"message": "hello",
		}, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, &http.Client{}, http.MethodPost, ts.URL+"/api/contact", map[string]any{
			"name":    "",
			"message": "",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
		}
	}
}

func TestStorefront_ContactRateLimited(t *testing.T) {
	ts := newStorefrontTS(t, storefront.HTTPDeps{})
	c := &http.Client{}

	body := map[string]any{"name": "Ada", "message": "hello"}

	for i := 0; i < 5; i++ {
		resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/contact", body, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status=%d body=%s", i+1, resp.StatusCode, string(raw))
		}
	}

	resp, raw := doJSON(t, c, http.MethodPost, ts.URL+"/api/contact", body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestStorefront_MetricsGated(t *testing.T) {
	const token = "metrics-token"

	ts := newStorefrontTS(t, storefront.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   token,
	})

	c := &http.Client{}

	// Generate some traffic so the counters have series to export.
	if resp, _ := doJSON(t, c, http.MethodGet, ts.URL+"/api/products", nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("warmup status=%d", resp.StatusCode)
	}

	{
		resp, _ := doJSON(t, c, http.MethodGet, ts.URL+"/metrics", nil, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("unauthenticated status=%d", resp.StatusCode)
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
		}
		if !strings.Contains(string(raw), "http_requests_total") {
			t.Fatalf("no request counter in scrape: %s", string(raw))
		}
	}
}

func TestStorefront_PagesServedAlongsideAPI(t *testing.T) {
	ts := newStorefrontTS(t, storefront.HTTPDeps{})
	c := newJarClient(t)

	resp, err := c.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if !strings.Contains(string(raw), "Keyboard") {
		t.Fatalf("products page not served: %s", string(raw))
	}
}
