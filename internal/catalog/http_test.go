package catalog_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"Storefront/internal/catalog"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewMemStore(), Log: zap.NewNop()}

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestCatalogAPI_ListSortedByID(t *testing.T) {
	ts := newCatalogTS(t)

	resp, raw := get(t, ts.URL+"/products")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}

	if len(products) != 6 {
		t.Fatalf("len=%d want=6", len(products))
	}
	for i, p := range products {
		if p.ID != int64(i+1) {
			t.Fatalf("products[%d].ID=%d want=%d", i, p.ID, i+1)
		}
		if p.Title == "" || p.PriceCents <= 0 || p.ImageURL == "" {
			t.Fatalf("products[%d]=%+v", i, p)
		}
	}
	if products[0].Title != "Keyboard" || products[0].PriceCents != 4990 {
		t.Fatalf("first=%+v", products[0])
	}
}

func TestCatalogAPI_Get(t *testing.T) {
	ts := newCatalogTS(t)

	resp, raw := get(t, ts.URL+"/products/3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	if p.ID != 3 || p.Title != "Monitor" || p.PriceCents != 18990 {
		t.Fatalf("product=%+v", p)
	}
}

func TestCatalogAPI_GetNotFound(t *testing.T) {
	ts := newCatalogTS(t)

	resp, raw := get(t, ts.URL+"/products/999")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestCatalogAPI_GetBadID(t *testing.T) {
	ts := newCatalogTS(t)

	resp, raw := get(t, ts.URL+"/products/keyboard")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestCatalogAPI_Categories(t *testing.T) {
	ts := newCatalogTS(t)

	resp, raw := get(t, ts.URL+"/categories")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}

	want := []string{"Keyboards & Mice", "Displays", "Audio & Video", "Accessories"}
	if len(names) != len(want) {
		t.Fatalf("len=%d want=%d names=%v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d]=%q want=%q", i, names[i], want[i])
		}
	}
}
