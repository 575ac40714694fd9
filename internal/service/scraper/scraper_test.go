package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
}

func TestScrapeProductSelector(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Shop</title></head><body>
		<h1 class="product-title">Magnetic Phone Mount</h1>
		<div class="product-description">  Holds your phone   on any surface. Strong magnets.  </div>
	</body></html>`)
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description != "Holds your phone on any surface. Strong magnets." {
		t.Errorf("description = %q", data.Description)
	}
	if data.Title == nil || *data.Title != "Magnetic Phone Mount" {
		t.Errorf("title = %v", data.Title)
	}
}

func TestScrapeProductJSONLD(t *testing.T) {
	server := serveHTML(t, `<html><head>
		<script type="application/ld+json">{"@type": "Product", "name": "Widget", "description": "A widget that does widget things."}</script>
	</head><body><h1>Widget</h1><p>unrelated</p></body></html>`)
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description != "A widget that does widget things." {
		t.Errorf("description = %q", data.Description)
	}
}

func TestScrapeProductJSONLDArray(t *testing.T) {
	server := serveHTML(t, `<html><head>
		<script type="application/ld+json">[{"@type": "BreadcrumbList"}, {"@type": "Product", "description": "From the array."}]</script>
	</head><body><h1>Thing</h1></body></html>`)
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description != "From the array." {
		t.Errorf("description = %q", data.Description)
	}
}

func TestScrapeProductMetaFallback(t *testing.T) {
	server := serveHTML(t, `<html><head>
		<meta name="description" content="Meta says: a fine product.">
	</head><body><h1>Fine Product</h1></body></html>`)
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description != "Meta says: a fine product." {
		t.Errorf("description = %q", data.Description)
	}
}

func TestScrapeProductInvalidURL(t *testing.T) {
	svc := NewService(zap.NewNop())

	data := svc.ScrapeProduct(context.Background(), "not-a-url")

	if !strings.HasPrefix(data.Description, "Error occurred while scraping the product description:") {
		t.Errorf("description = %q", data.Description)
	}
	if data.Title == nil || *data.Title != "Error: Failed to scrape product" {
		t.Errorf("title = %v", data.Title)
	}
}

func TestScrapeProductClientErrorIsPermanent(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if !strings.Contains(data.Description, "status 404") {
		t.Errorf("description = %q", data.Description)
	}
	if calls != 1 {
		t.Errorf("4xx must not retry, got %d requests", calls)
	}
}

func TestScrapeProductRetriesServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div class="description">Recovered description.</div></body></html>`))
	}))
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description != "Recovered description." {
		t.Errorf("description = %q", data.Description)
	}
	if calls < 2 {
		t.Errorf("expected at least one retry, got %d requests", calls)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"• bullet item", "bullet item"},
		{"item with trailing -", "item with trailing"},
		{"1. numbered entry", "numbered entry"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScrapeMissingDescription(t *testing.T) {
	server := serveHTML(t, `<html><head></head><body><h1>Just a Title</h1></body></html>`)
	defer server.Close()

	svc := NewService(zap.NewNop())
	data := svc.ScrapeProduct(context.Background(), server.URL)

	if data.Description == "" {
		t.Error("description must never be empty")
	}
	if data.Title == nil || *data.Title != "Just a Title" {
		t.Errorf("title = %v", data.Title)
	}
}
