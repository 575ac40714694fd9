// Package scraper extracts product descriptions from e-commerce pages.
// Extraction is layered: CSS selectors first, then JSON-LD structured
// data, then the meta description, then readability article extraction.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/internal/domain"
)

// Selector order matters: specific e-commerce markup first, generic
// class-substring matches last.
var descriptionSelectors = []string{
	`[data-testid="product-description"]`,
	".product-description",
	".product-details",
	".product-info",
	".description",
	`[class*="description"]`,
	`[class*="product-details"]`,
	`[class*="product-info"]`,

	`meta[name="description"]`,

	".product-summary",
	".product-overview",
	".product-content",
	".product-text",
	".item-description",
	".product-specs",

	`p[class*="description"]`,
	`div[class*="description"]`,
	`section[class*="description"]`,
}

var titleSelectors = []string{
	`h1[data-testid="product-title"]`,
	"h1.product-title",
	`h1[class*="title"]`,
	`h1[class*="name"]`,
	"h1",
	".product-name",
	".product-title",
	`[data-testid="product-title"]`,
	"title",
}

type Service struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: constants.ScraperConfig.RequestTimeout,
		},
		logger: logger,
	}
}

// ScrapeProduct extracts the description (and title, when found) from a
// product page. It never returns an error: failures come back as an
// error-shaped ProductData so the endpoint response keeps its contract.
func (s *Service) ScrapeProduct(ctx context.Context, rawURL string) domain.ProductData {
	start := time.Now()

	data, err := s.scrape(ctx, rawURL)
	if err != nil {
		s.logger.Error("Product scraping failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		errTitle := "Error: Failed to scrape product"
		return domain.ProductData{
			Description: fmt.Sprintf("Error occurred while scraping the product description: %v", err),
			Title:       &errTitle,
		}
	}

	s.logger.Info("Product scraping completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("has_title", data.Title != nil),
		zap.Int("description_length", len(data.Description)),
	)

	return data
}

func (s *Service) scrape(ctx context.Context, rawURL string) (domain.ProductData, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return domain.ProductData{}, fmt.Errorf("invalid URL format")
	}

	body, err := s.fetchPage(ctx, rawURL)
	if err != nil {
		return domain.ProductData{}, fmt.Errorf("failed to fetch the webpage: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return domain.ProductData{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	description := extractBySelectors(doc, descriptionSelectors)
	if description == "" {
		description = extractStructuredDataDescription(doc)
	}
	if description == "" {
		description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}
	if description == "" {
		description = s.extractWithReadability(body, parsed)
	}

	if description != "" {
		description = cleanText(description)
	}
	if description == "" {
		description = "Product description not available"
	}

	var title *string
	if t := cleanText(extractBySelectors(doc, titleSelectors)); t != "" {
		title = &t
	}

	return domain.ProductData{
		Description: description,
		Title:       title,
	}, nil
}

// fetchPage retrieves the page with browser-like headers, retrying
// transient failures with exponential backoff. Client errors (4xx) are
// permanent and fail immediately.
func (s *Service) fetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		s.logger.Info("Fetching URL", zap.String("url", rawURL))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		req.Header.Set("Connection", "keep-alive")
		req.Header.Set("Upgrade-Insecure-Requests", "1")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			s.logger.Warn("Fetch attempt failed", zap.String("url", rawURL), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("request failed with status %d", resp.StatusCode))
		}
		if resp.StatusCode >= 500 {
			s.logger.Warn("Server error, will retry",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
			)
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		s.logger.Info("Successfully fetched URL",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = constants.ScraperConfig.MaxFetchElapsed

	if err := backoff.Retry(operation, backoff.WithContext(expBackoff, ctx)); err != nil {
		return nil, err
	}

	return body, nil
}

// extractBySelectors returns the first non-empty match. Meta elements
// yield their content attribute, everything else its trimmed text.
func extractBySelectors(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		if goquery.NodeName(sel) == "meta" {
			if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
				return strings.TrimSpace(content)
			}
			continue
		}

		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

// extractStructuredDataDescription pulls the description field out of
// JSON-LD blocks, handling both single objects and arrays.
func extractStructuredDataDescription(doc *goquery.Document) string {
	var description string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := sel.Text()

		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			if desc, ok := single["description"].(string); ok && desc != "" {
				description = desc
				return false
			}
			return true
		}

		var list []map[string]any
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			for _, item := range list {
				if desc, ok := item["description"].(string); ok && desc != "" {
					description = desc
					return false
				}
			}
		}

		return true
	})

	return description
}

// extractWithReadability runs article extraction as the last resort for
// pages whose product copy lives in unrecognized markup.
func (s *Service) extractWithReadability(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	if err != nil {
		s.logger.Debug("Readability extraction failed", zap.Error(err))
		return ""
	}

	if article.Excerpt != "" {
		return article.Excerpt
	}
	return strings.TrimSpace(article.TextContent)
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	leadingBulletRe = regexp.MustCompile(`^\s*[•\-*]\s*`)
	trailingBullet  = regexp.MustCompile(`\s*[•\-*]\s*$`)
	numberedListRe  = regexp.MustCompile(`^\s*\d+\.\s*`)
)

// cleanText collapses whitespace and strips stray list markers.
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = leadingBulletRe.ReplaceAllString(text, "")
	text = trailingBullet.ReplaceAllString(text, "")
	text = numberedListRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
