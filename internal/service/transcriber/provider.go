package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/pkg/errors"
)

// TranscribeParams carries the provider request options.
type TranscribeParams struct {
	URL  string
	Lang string
	Text bool
	Mode string
}

// ProviderResult is the provider's answer: inline content, or a job ID
// when the transcript is produced asynchronously.
type ProviderResult struct {
	Content string `json:"content"`
	Lang    string `json:"lang"`
	JobID   string `json:"jobId"`
}

// HasContent reports whether the transcript was returned inline.
func (r *ProviderResult) HasContent() bool {
	return r.Content != ""
}

// Provider fetches a transcript for a single URL.
type Provider interface {
	Transcript(ctx context.Context, params TranscribeParams) (*ProviderResult, error)
}

// SupadataClient calls the Supadata transcript API.
type SupadataClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSupadataClient(apiKey, baseURL string, logger *zap.Logger) *SupadataClient {
	if baseURL == "" {
		baseURL = constants.SupadataConfig.BaseURL
	}
	return &SupadataClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.SupadataConfig.RequestTimeout,
		},
		logger: logger,
	}
}

func (c *SupadataClient) Transcript(ctx context.Context, params TranscribeParams) (*ProviderResult, error) {
	endpoint := fmt.Sprintf("%s/transcript", c.baseURL)

	query := url.Values{}
	query.Set("url", params.URL)
	query.Set("lang", params.Lang)
	query.Set("text", strconv.FormatBool(params.Text))
	query.Set("mode", params.Mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supadata request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("Supadata returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", params.URL),
		)
		return nil, errors.NewProviderError(
			fmt.Sprintf("supadata request failed with status %d", resp.StatusCode),
			resp.StatusCode,
			string(body),
		)
	}

	var result ProviderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode supadata response: %w", err)
	}

	return &result, nil
}

var statusPattern = regexp.MustCompile(`status (\d{3})`)

// statusFromMessage extracts an HTTP status from an untyped provider error
// message. It exists only for errors that do not carry a numeric status;
// typed ProviderErrors are classified by StatusCode directly.
func statusFromMessage(msg string) (int, bool) {
	m := statusPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	status, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return status, true
}
