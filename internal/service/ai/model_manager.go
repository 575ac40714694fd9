// Package ai generates tailored scripts with OpenAI as the primary
// provider and Gemini as an optional fallback, both behind a shared
// circuit breaker.
package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/internal/util"
	"github.com/myrefera/script-tailor-go/pkg/errors"
)

// CompletionMetadata describes which provider produced a completion.
type CompletionMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// Completer produces a raw completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, *CompletionMetadata, error)
	PrimaryModel() string
}

type ModelManager struct {
	openaiClient   *openai.Client
	geminiClient   *genai.Client
	logger         *zap.Logger
	openaiModel    string
	geminiModel    string
	enableFallback bool
	maxTokens      int
	temperature    float64
	requestTimeout time.Duration
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiAPIKey   string
	GeminiModel    string
	EnableFallback bool
	MaxTokens      int
	Temperature    float64
	RequestTimeout time.Duration
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	openaiModel := cfg.OpenAIModel
	if openaiModel == "" {
		openaiModel = "gpt-4.1-mini"
	}
	geminiModel := cfg.GeminiModel
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = constants.AIConfig.MaxTokens
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = constants.AIConfig.RequestTimeout
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))

	mm := &ModelManager{
		openaiClient:   &client,
		logger:         logger,
		openaiModel:    openaiModel,
		geminiModel:    geminiModel,
		enableFallback: cfg.EnableFallback && cfg.GeminiAPIKey != "",
		maxTokens:      maxTokens,
		temperature:    cfg.Temperature,
		requestTimeout: requestTimeout,
	}

	if mm.enableFallback {
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		mm.geminiClient = geminiClient
		logger.Info("Gemini fallback enabled", zap.String("model", geminiModel))
	} else {
		logger.Info("Gemini fallback disabled")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm, nil
}

func (mm *ModelManager) PrimaryModel() string {
	return mm.openaiModel
}

// Complete runs a single attempt per provider under the request timeout
// budget. The deadline covers the whole call, fallback included, so a slow
// primary eats into the fallback's time.
func (mm *ModelManager) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, *CompletionMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return "", nil, fmt.Errorf("AI service temporarily unavailable, please retry later")
	}

	ctx, cancel := context.WithTimeout(ctx, mm.requestTimeout)
	defer cancel()

	text, openaiErr := mm.completeWithOpenAI(ctx, systemPrompt, userPrompt)
	if openaiErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return text, &CompletionMetadata{
			Provider: "OpenAI",
			Model:    mm.openaiModel,
		}, nil
	}

	if timeoutErr := mm.asTimeout(ctx, openaiErr); timeoutErr != nil {
		return "", nil, timeoutErr
	}

	if mm.enableFallback && mm.geminiClient != nil {
		text, geminiErr := mm.completeWithGemini(ctx, systemPrompt, userPrompt)
		if geminiErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return text, &CompletionMetadata{
				Provider:     "Gemini",
				Model:        mm.geminiModel,
				UsedFallback: true,
			}, nil
		}

		if timeoutErr := mm.asTimeout(ctx, geminiErr); timeoutErr != nil {
			return "", nil, timeoutErr
		}

		mm.recordFailure(openaiErr, geminiErr)
		return "", nil, fmt.Errorf("all AI providers failed: %v", geminiErr)
	}

	mm.recordFailure(openaiErr)
	return "", nil, openaiErr
}

// asTimeout converts a provider error caused by the expired budget into a
// typed timeout error. Timeouts do not trip the circuit breaker.
func (mm *ModelManager) asTimeout(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		mm.logger.Error("AI request exceeded time budget",
			zap.Duration("budget", mm.requestTimeout),
		)
		return errors.NewTimeoutError("API call", mm.requestTimeout)
	}
	return nil
}

func (mm *ModelManager) recordFailure(errs ...error) {
	serviceFailure := false
	rateLimited := false
	for _, err := range errs {
		if mm.isServiceFailure(err) {
			serviceFailure = true
		}
		if mm.isRateLimitError(err) {
			rateLimited = true
		}
	}

	if !serviceFailure {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if rateLimited {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) completeWithOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	mm.logger.Info("Calling OpenAI", zap.String("model", mm.openaiModel))

	var model openai.ChatModel
	switch mm.openaiModel {
	case "gpt-4.1":
		model = openai.ChatModelGPT4_1
	case "gpt-4.1-mini":
		model = openai.ChatModelGPT4_1Mini
	case "gpt-4.1-nano":
		model = openai.ChatModelGPT4_1Nano
	case "gpt-4o":
		model = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		model = openai.ChatModelGPT4oMini
	case "gpt-4-turbo":
		model = openai.ChatModelGPT4Turbo
	default:
		model = openai.ChatModelGPT4_1Mini
	}

	resp, err := mm.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature:         openai.Float(mm.temperature),
		MaxCompletionTokens: openai.Int(int64(mm.maxTokens)),
	})
	if err != nil {
		mm.logger.Error("OpenAI generation failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	text := resp.Choices[0].Message.Content
	mm.logger.Info("OpenAI response received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return text, nil
}

func (mm *ModelManager) completeWithGemini(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	mm.logger.Info("Fallback: Calling Gemini", zap.String("model", mm.geminiModel))

	temperature := float32(mm.temperature)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(mm.maxTokens),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	resp, err := mm.geminiClient.Models.GenerateContent(ctx, mm.geminiModel, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: userPrompt},
			},
		},
	}, config)
	if err != nil {
		mm.logger.Error("Gemini generation failed", zap.Error(err))
		return "", err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	mm.logger.Info("Gemini response received", zap.Int("length", len(text)))
	return text, nil
}

func (mm *ModelManager) healthCheckPing() bool {
	mm.logger.Info("Health Check: Testing AI services...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	openaiOK := mm.pingOpenAI(ctx)
	geminiOK := false

	if mm.enableFallback && mm.geminiClient != nil {
		geminiOK = mm.pingGemini(ctx)
	}

	isHealthy := openaiOK || geminiOK

	mm.logger.Info("Health Check: Result",
		zap.Bool("openai", openaiOK),
		zap.Bool("gemini", geminiOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func (mm *ModelManager) pingOpenAI(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	mm.logger.Debug("Pinging OpenAI API...")

	resp, err := mm.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxCompletionTokens: openai.Int(10),
		Temperature:         openai.Float(0),
	})
	if err != nil {
		mm.logger.Debug("OpenAI ping failed", zap.Error(err))
		return false
	}

	return len(resp.Choices) > 0
}

func (mm *ModelManager) pingGemini(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	mm.logger.Debug("Pinging Gemini API...")

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 10,
	}

	resp, err := mm.geminiClient.Models.GenerateContent(ctx, mm.geminiModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: "ping"}}},
	}, config)
	if err != nil {
		mm.logger.Debug("Gemini ping failed", zap.Error(err))
		return false
	}

	return extractTextFromGeminiResponse(resp) != ""
}

func (mm *ModelManager) isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}

	if mm.isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func (mm *ModelManager) isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	return strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota")
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}
