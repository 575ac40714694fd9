// Package server exposes the HTTP API: batch transcription, AI script
// tailoring, product scraping and platform support checks.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/service/ai"
	"github.com/myrefera/script-tailor-go/internal/service/cache"
	"github.com/myrefera/script-tailor-go/internal/service/transcriber"
	"github.com/myrefera/script-tailor-go/internal/util"
)

// TranscriptFetcher fetches a transcript for one URL.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, url, lang string, wantText bool, mode string) *domain.TranscriptionOutcome
}

// ScriptTailor generates a tailored script for a transcript/product pair.
type ScriptTailor interface {
	GenerateTailoredScript(ctx context.Context, req domain.TailoringRequest) (domain.TailoringData, ai.ResultMeta)
}

// ProductScraper extracts a product description from a page.
type ProductScraper interface {
	ScrapeProduct(ctx context.Context, url string) domain.ProductData
}

// Handlers carries the service dependencies for all endpoints.
type Handlers struct {
	fetcher       TranscriptFetcher
	tailor        ScriptTailor
	scraper       ProductScraper
	store         cache.Store
	cacheTTL      time.Duration
	maxConcurrent int
	primaryModel  string
	logger        *zap.Logger
}

type HandlersConfig struct {
	CacheTTL      time.Duration
	MaxConcurrent int
	PrimaryModel  string
}

func NewHandlers(
	fetcher TranscriptFetcher,
	tailor ScriptTailor,
	scraper ProductScraper,
	store cache.Store,
	cfg HandlersConfig,
	logger *zap.Logger,
) *Handlers {
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = constants.CacheTTL.Transcript
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = constants.BatchConfig.MaxConcurrentURLs
	}

	return &Handlers{
		fetcher:       fetcher,
		tailor:        tailor,
		scraper:       scraper,
		store:         store,
		cacheTTL:      cacheTTL,
		maxConcurrent: maxConcurrent,
		primaryModel:  cfg.PrimaryModel,
		logger:        logger,
	}
}

// HandleTranscribe transcribes a batch of URLs. Results keep request
// order; resolved outcomes are cached by URL hash.
func (h *Handlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.TranscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if len(req.URLs) == 0 {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", "urls must not be empty")
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = "en"
	}
	wantText := true
	if req.Text != nil {
		wantText = *req.Text
	}
	mode := req.Mode
	if mode == "" {
		mode = "auto"
	}

	h.logger.Info("Starting transcription batch", zap.Int("urls", len(req.URLs)))

	results := make([]*domain.TranscriptionOutcome, len(req.URLs))

	p := pool.New().WithMaxGoroutines(h.maxConcurrent)
	for i, u := range req.URLs {
		i, u := i, u
		p.Go(func() {
			results[i] = h.transcribeOne(r.Context(), u, lang, wantText, mode)
		})
	}
	p.Wait()

	successful := 0
	for _, outcome := range results {
		if outcome.Resolved() {
			successful++
		}
	}

	h.logger.Info("Transcription batch complete",
		zap.Int("successful", successful),
		zap.Int("failed", len(results)-successful),
	)

	writeJSON(w, http.StatusOK, domain.TranscribeResponse{
		Results: results,
		Summary: domain.TranscribeSummary{
			Total:      len(results),
			Successful: successful,
			Failed:     len(results) - successful,
		},
	})
}

func (h *Handlers) transcribeOne(ctx context.Context, url, lang string, wantText bool, mode string) *domain.TranscriptionOutcome {
	key := util.HashURL(url)

	var cached domain.TranscriptionOutcome
	hit, err := h.store.Get(ctx, key, &cached)
	if err != nil {
		h.logger.Warn("Cache lookup failed", zap.String("url", url), zap.Error(err))
	}
	if hit {
		h.logger.Info("Using cached result", zap.String("url", url))
		return &cached
	}

	h.logger.Info("Processing URL", zap.String("url", url))
	outcome := h.fetcher.FetchTranscript(ctx, url, lang, wantText, mode)

	if outcome.Resolved() {
		if err := h.store.Set(ctx, key, outcome, h.cacheTTL); err != nil {
			h.logger.Warn("Failed to cache result", zap.String("url", url), zap.Error(err))
		}
	}

	return outcome
}

// HandleTailorScript rewrites a transcript for a product using the AI
// pipeline. Generation failures still return 200 with error-shaped data;
// 500 is reserved for panics in the pipeline.
func (h *Handlers) HandleTailorScript(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("AI script tailoring panicked", zap.Any("panic", rec))
			writeErrorDetail(w, http.StatusInternalServerError, "AI_PROCESSING_ERROR",
				"Failed to generate tailored script: internal error")
		}
	}()

	var req domain.TailoringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(req.OriginalTranscript) == "" {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", "originalTranscript is required")
		return
	}
	if strings.TrimSpace(req.ProductDescription) == "" {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", "productDescription is required")
		return
	}

	h.logger.Info("Starting AI script tailoring",
		zap.Int("transcript_length", len(req.OriginalTranscript)),
	)

	data, meta := h.tailor.GenerateTailoredScript(r.Context(), req)

	modelUsed := meta.ModelUsed
	if modelUsed == "" {
		modelUsed = h.primaryModel
	}

	h.logger.Info("AI script tailoring completed",
		zap.Int("word_count", data.WordCount),
		zap.Float64("confidence", data.Confidence),
		zap.Float64("processing_time", data.ProcessingTime),
		zap.Int("sections", len(data.SectionBreakdown)),
		zap.String("model_used", modelUsed),
	)

	writeJSON(w, http.StatusOK, domain.TailoringResponse{
		Success: true,
		Data:    data,
		Metadata: map[string]any{
			"originalLength":   len(strings.Fields(req.OriginalTranscript)),
			"improvementAreas": []string{"product_alignment", "psychological_triggers"},
			"apiVersion":       constants.APIVersions.Tailoring,
			"timestamp":        utcTimestamp(),
			"model_used":       modelUsed,
		},
	})
}

// HandleScrapeProduct extracts a product description from a URL.
func (h *Handlers) HandleScrapeProduct(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("Product scraping panicked", zap.Any("panic", rec))
			writeErrorDetail(w, http.StatusInternalServerError, "SCRAPING_ERROR",
				"Failed to scrape product: internal error")
		}
	}()

	var req domain.ProductScrapeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", "url is required")
		return
	}

	h.logger.Info("Starting product scraping", zap.String("url", req.URL))

	data := h.scraper.ScrapeProduct(r.Context(), req.URL)

	writeJSON(w, http.StatusOK, domain.ProductScrapeResponse{
		Success: true,
		Data:    data,
		Metadata: map[string]any{
			"url":        req.URL,
			"domain":     domainOf(req.URL),
			"timestamp":  utcTimestamp(),
			"apiVersion": constants.APIVersions.Scraper,
		},
	})
}

func domainOf(url string) string {
	if !strings.Contains(url, "://") {
		return "unknown"
	}
	parts := strings.Split(url, "/")
	if len(parts) < 3 {
		return "unknown"
	}
	return parts[2]
}

// HandlePlatformSupport reports provider support for a URL's platform.
func (h *Handlers) HandlePlatformSupport(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR", "url query parameter is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":           url,
		"platform_info": transcriber.DetectPlatform(url),
		"timestamp":     utcTimestamp(),
	})
}

// HandleHealth reports service status and the platform support matrix.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"service":      "Transcription & AI Script Tailoring API",
		"version":      constants.APIVersions.Service,
		"timestamp":    utcTimestamp(),
		"openai_model": h.primaryModel,
		"services":     []string{"transcription", "ai_script_tailoring", "platform_detection", "product_scraping"},
		"supported_platforms": map[string]any{
			"high_reliability":   []string{"YouTube"},
			"medium_reliability": []string{"Instagram"},
			"low_reliability":    []string{"TikTok", "X (Twitter)"},
			"not_supported":      []string{"Vimeo", "Twitch"},
		},
	})
}
