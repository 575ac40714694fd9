package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/service/ai"
	"github.com/myrefera/script-tailor-go/internal/service/cache"
)

type fakeFetcher struct {
	mu       sync.Mutex
	outcomes map[string]*domain.TranscriptionOutcome
	calls    map[string]int
}

func (f *fakeFetcher) FetchTranscript(_ context.Context, url, _ string, _ bool, _ string) *domain.TranscriptionOutcome {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[url]++
	f.mu.Unlock()
	if o, ok := f.outcomes[url]; ok {
		return o
	}
	return domain.NewErrorOutcome(url, "Unknown", domain.TranscriptionError{
		Code:    domain.ErrCodeUnknownError,
		Message: "no canned outcome",
	})
}

type fakeTailor struct {
	data domain.TailoringData
	meta ai.ResultMeta
}

func (f *fakeTailor) GenerateTailoredScript(_ context.Context, _ domain.TailoringRequest) (domain.TailoringData, ai.ResultMeta) {
	return f.data, f.meta
}

type fakeScraper struct {
	data domain.ProductData
}

func (f *fakeScraper) ScrapeProduct(_ context.Context, _ string) domain.ProductData {
	return f.data
}

func newTestHandlers(fetcher *fakeFetcher, tailor *fakeTailor, scraper *fakeScraper) *Handlers {
	logger := zap.NewNop()
	return NewHandlers(fetcher, tailor, scraper, cache.NewMemoryStore(logger), HandlersConfig{
		CacheTTL:      time.Hour,
		MaxConcurrent: 4,
		PrimaryModel:  "gpt-4.1-mini",
	}, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleTranscribeOrderedResults(t *testing.T) {
	fetcher := &fakeFetcher{outcomes: map[string]*domain.TranscriptionOutcome{
		"https://youtube.com/watch?v=a": domain.NewSuccessOutcome("https://youtube.com/watch?v=a", "YouTube", "en", "first"),
		"https://youtube.com/watch?v=b": domain.NewErrorOutcome("https://youtube.com/watch?v=b", "YouTube", domain.TranscriptionError{
			Code:    domain.ErrCodeTranscriptionFailed,
			Message: "failed",
		}),
		"https://youtube.com/watch?v=c": domain.NewQueuedOutcome("https://youtube.com/watch?v=c", "YouTube", "job-1"),
	}}
	h := newTestHandlers(fetcher, &fakeTailor{}, &fakeScraper{})

	rec := postJSON(t, h.HandleTranscribe, `{
		"urls": ["https://youtube.com/watch?v=a", "https://youtube.com/watch?v=b", "https://youtube.com/watch?v=c"]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp domain.TranscribeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(resp.Results))
	}
	// Results follow request order regardless of completion order.
	if resp.Results[0].Transcript != "first" {
		t.Errorf("results[0] = %+v", resp.Results[0])
	}
	if resp.Results[1].Status != domain.TranscriptionFailed {
		t.Errorf("results[1] = %+v", resp.Results[1])
	}
	if resp.Results[2].JobID != "job-1" {
		t.Errorf("results[2] = %+v", resp.Results[2])
	}

	if resp.Summary.Total != 3 || resp.Summary.Successful != 2 || resp.Summary.Failed != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestHandleTranscribeCachesResolvedOutcomes(t *testing.T) {
	url := "https://youtube.com/watch?v=a"
	failing := "https://youtube.com/watch?v=z"
	fetcher := &fakeFetcher{outcomes: map[string]*domain.TranscriptionOutcome{
		url: domain.NewSuccessOutcome(url, "YouTube", "en", "cached content"),
	}}
	h := newTestHandlers(fetcher, &fakeTailor{}, &fakeScraper{})

	body := `{"urls": ["` + url + `", "` + failing + `"]}`

	postJSON(t, h.HandleTranscribe, body)
	rec := postJSON(t, h.HandleTranscribe, body)

	if fetcher.calls[url] != 1 {
		t.Errorf("resolved outcome should come from cache on the second call, fetched %d times", fetcher.calls[url])
	}
	if fetcher.calls[failing] != 2 {
		t.Errorf("error outcomes must not be cached, fetched %d times", fetcher.calls[failing])
	}

	var resp domain.TranscribeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Results[0].Transcript != "cached content" {
		t.Errorf("results[0] = %+v", resp.Results[0])
	}
}

func TestHandleTranscribeValidation(t *testing.T) {
	h := newTestHandlers(&fakeFetcher{}, &fakeTailor{}, &fakeScraper{})

	for _, body := range []string{`{"urls": []}`, `not json`} {
		rec := postJSON(t, h.HandleTranscribe, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleTailorScript(t *testing.T) {
	tailor := &fakeTailor{
		data: domain.TailoringData{
			TailoredScript:    "Buy it now.",
			Confidence:        0.9,
			ProcessingTime:    1.2,
			WordCount:         3,
			EstimatedReadTime: "1s",
			SectionBreakdown:  []domain.Section{},
		},
		meta: ai.ResultMeta{ModelUsed: "gpt-4.1-mini", Provider: "OpenAI"},
	}
	h := newTestHandlers(&fakeFetcher{}, tailor, &fakeScraper{})

	rec := postJSON(t, h.HandleTailorScript, `{
		"originalTranscript": "one two three four five",
		"productDescription": "a gadget"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success  bool                 `json:"success"`
		Data     domain.TailoringData `json:"data"`
		Metadata map[string]any       `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !resp.Success {
		t.Error("success must be true")
	}
	if resp.Data.TailoredScript != "Buy it now." {
		t.Errorf("script = %q", resp.Data.TailoredScript)
	}
	if resp.Metadata["apiVersion"] != "2.0" {
		t.Errorf("apiVersion = %v", resp.Metadata["apiVersion"])
	}
	if resp.Metadata["model_used"] != "gpt-4.1-mini" {
		t.Errorf("model_used = %v", resp.Metadata["model_used"])
	}
	if resp.Metadata["originalLength"] != float64(5) {
		t.Errorf("originalLength = %v", resp.Metadata["originalLength"])
	}
	ts, _ := resp.Metadata["timestamp"].(string)
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("timestamp = %q", ts)
	}
}

func TestHandleTailorScriptValidation(t *testing.T) {
	h := newTestHandlers(&fakeFetcher{}, &fakeTailor{}, &fakeScraper{})

	cases := []string{
		`{"originalTranscript": "", "productDescription": "x"}`,
		`{"originalTranscript": "x", "productDescription": ""}`,
		`{}`,
		`garbage`,
	}
	for _, body := range cases {
		rec := postJSON(t, h.HandleTailorScript, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}

		var resp struct {
			Detail struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			} `json:"detail"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Detail.Success || resp.Detail.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("body %q: detail = %+v", body, resp.Detail)
		}
	}
}

func TestHandleScrapeProduct(t *testing.T) {
	title := "Gadget"
	h := newTestHandlers(&fakeFetcher{}, &fakeTailor{}, &fakeScraper{
		data: domain.ProductData{Description: "A fine gadget.", Title: &title},
	})

	rec := postJSON(t, h.HandleScrapeProduct, `{"url": "https://shop.example.com/p/gadget"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Success  bool               `json:"success"`
		Data     domain.ProductData `json:"data"`
		Metadata map[string]any     `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !resp.Success || resp.Data.Description != "A fine gadget." {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Metadata["domain"] != "shop.example.com" {
		t.Errorf("domain = %v", resp.Metadata["domain"])
	}
	if resp.Metadata["apiVersion"] != "1.0" {
		t.Errorf("apiVersion = %v", resp.Metadata["apiVersion"])
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://shop.example.com/p/1", "shop.example.com"},
		{"http://example.com", "example.com"},
		{"example.com/p/1", "unknown"},
	}
	for _, tt := range tests {
		if got := domainOf(tt.url); got != tt.want {
			t.Errorf("domainOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestHandlePlatformSupport(t *testing.T) {
	h := newTestHandlers(&fakeFetcher{}, &fakeTailor{}, &fakeScraper{})

	req := httptest.NewRequest(http.MethodGet, "/platform-support?url=https://youtu.be/abc", nil)
	rec := httptest.NewRecorder()
	h.HandlePlatformSupport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		URL          string              `json:"url"`
		PlatformInfo domain.PlatformInfo `json:"platform_info"`
		Timestamp    string              `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PlatformInfo.Platform != "YouTube" || !resp.PlatformInfo.Supported {
		t.Errorf("platform_info = %+v", resp.PlatformInfo)
	}

	// Missing url parameter
	rec = httptest.NewRecorder()
	h.HandlePlatformSupport(rec, httptest.NewRequest(http.MethodGet, "/platform-support", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandlers(&fakeFetcher{}, &fakeTailor{}, &fakeScraper{})

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp["status"] != "healthy" || resp["version"] != "2.1" {
		t.Errorf("resp = %v", resp)
	}
	if resp["openai_model"] != "gpt-4.1-mini" {
		t.Errorf("openai_model = %v", resp["openai_model"])
	}
	platforms, _ := resp["supported_platforms"].(map[string]any)
	if platforms == nil {
		t.Fatal("supported_platforms missing")
	}
	if high, _ := platforms["high_reliability"].([]any); len(high) != 1 || high[0] != "YouTube" {
		t.Errorf("high_reliability = %v", platforms["high_reliability"])
	}
}
