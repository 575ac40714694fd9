package transcriber

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/constants"
	"github.com/myrefera/script-tailor-go/internal/domain"
	"github.com/myrefera/script-tailor-go/internal/util"
	"github.com/myrefera/script-tailor-go/pkg/errors"
)

// Fetcher wraps a Provider with platform-aware retry behavior. Retries
// back off exponentially with a base that depends on the failure class,
// and low-reliability platforms get a larger attempt budget.
type Fetcher struct {
	provider    Provider
	logger      *zap.Logger
	maxAttempts int

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration)
}

func NewFetcher(provider Provider, maxAttempts int, logger *zap.Logger) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = constants.RetryConfig.MaxAttempts
	}
	return &Fetcher{
		provider:    provider,
		logger:      logger,
		maxAttempts: maxAttempts,
		sleep:       sleepContext,
	}
}

// FetchTranscript transcribes a single URL. It never returns an error:
// every failure mode is folded into an error outcome so batch callers can
// report per-URL dispositions.
func (f *Fetcher) FetchTranscript(ctx context.Context, url, lang string, wantText bool, mode string) *domain.TranscriptionOutcome {
	info := DetectPlatform(url)
	f.logger.Info("Platform detected",
		zap.String("platform", info.Platform),
		zap.String("reliability", string(info.Reliability)),
	)

	if !info.Supported {
		f.logger.Warn("Platform not supported",
			zap.String("platform", info.Platform),
			zap.String("url", url),
		)
		return domain.NewErrorOutcome(url, info.Platform, domain.TranscriptionError{
			Code:    domain.ErrCodePlatformNotSupported,
			Message: fmt.Sprintf("Platform %s is not supported by Supadata", info.Platform),
			Details: info.Recommendation,
		})
	}

	maxAttempts := f.maxAttempts
	if info.Reliability == domain.ReliabilityLow {
		maxAttempts = util.Max(maxAttempts, constants.RetryConfig.LowReliabilityAttempts)
		f.logger.Info("Using enhanced retry strategy",
			zap.String("platform", info.Platform),
			zap.Int("max_attempts", maxAttempts),
		)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		f.logger.Info("Transcription attempt",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxAttempts),
			zap.String("url", url),
		)

		result, err := f.provider.Transcript(ctx, TranscribeParams{
			URL:  url,
			Lang: lang,
			Text: wantText,
			Mode: mode,
		})
		if err == nil {
			if result.HasContent() {
				f.logger.Info("Transcription successful",
					zap.String("platform", info.Platform),
					zap.String("url", url),
				)
				return domain.NewSuccessOutcome(url, info.Platform, result.Lang, result.Content)
			}
			f.logger.Info("Transcription queued",
				zap.String("platform", info.Platform),
				zap.String("url", url),
				zap.String("job_id", result.JobID),
			)
			return domain.NewQueuedOutcome(url, info.Platform, result.JobID)
		}

		var provErr *errors.ProviderError
		if stderrors.As(err, &provErr) {
			errMsg := provErr.Message
			f.logger.Warn("Provider error",
				zap.Int("attempt", attempt+1),
				zap.Int("status", provErr.StatusCode),
				zap.String("error", errMsg),
			)

			switch classifyStatus(provErr) {
			case failureRateLimited:
				wait := constants.RetryConfig.RateLimitBackoffBase * time.Duration(1<<attempt)
				f.logger.Info("Rate limited, backing off", zap.Duration("wait", wait))
				f.sleep(ctx, wait)
			case failureServerError:
				wait := constants.RetryConfig.ServerErrorBackoffBase * time.Duration(1<<attempt)
				f.logger.Info("Server error, backing off", zap.Duration("wait", wait))
				f.sleep(ctx, wait)
			default:
				f.logger.Error("Non-retryable provider error", zap.String("error", errMsg))
				return domain.NewErrorOutcome(url, info.Platform, domain.TranscriptionError{
					Code:                   domain.ErrCodeTranscriptionError,
					Message:                fmt.Sprintf("Failed to transcribe %s video: %s", info.Platform, errMsg),
					Details:                errMsg,
					PlatformRecommendation: info.Recommendation,
				})
			}

			if attempt == maxAttempts-1 {
				f.logger.Error("All retry attempts failed",
					zap.String("platform", info.Platform),
					zap.String("url", url),
				)
				return domain.NewErrorOutcome(url, info.Platform, domain.TranscriptionError{
					Code:                   domain.ErrCodeTranscriptionFailed,
					Message:                fmt.Sprintf("Failed to transcribe %s video after %d attempts: %s", info.Platform, maxAttempts, errMsg),
					Details:                errMsg,
					PlatformRecommendation: info.Recommendation,
				})
			}
			continue
		}

		f.logger.Error("Unexpected transcription error",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if attempt == maxAttempts-1 {
			return domain.NewErrorOutcome(url, info.Platform, domain.TranscriptionError{
				Code:                   domain.ErrCodeUnexpectedError,
				Message:                fmt.Sprintf("Unexpected error transcribing %s video: %s", info.Platform, err.Error()),
				Details:                err.Error(),
				PlatformRecommendation: info.Recommendation,
			})
		}
		f.sleep(ctx, constants.RetryConfig.GenericBackoffBase*time.Duration(1<<attempt))
	}

	return domain.NewErrorOutcome(url, info.Platform, domain.TranscriptionError{
		Code:                   domain.ErrCodeUnknownError,
		Message:                fmt.Sprintf("Unknown error occurred during %s transcription", info.Platform),
		Details:                "Maximum retries exceeded",
		PlatformRecommendation: info.Recommendation,
	})
}

type failureClass int

const (
	failureTerminal failureClass = iota
	failureRateLimited
	failureServerError
)

// classifyStatus maps a provider error to a retry class by numeric status.
// Errors without a populated StatusCode fall back to parsing the message.
func classifyStatus(err *errors.ProviderError) failureClass {
	status := err.StatusCode
	if status == 0 {
		if parsed, ok := statusFromMessage(err.Message); ok {
			status = parsed
		}
	}

	switch {
	case status == 429:
		return failureRateLimited
	case status == 400 || status >= 500:
		return failureServerError
	default:
		return failureTerminal
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
