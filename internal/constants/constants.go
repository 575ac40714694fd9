package constants

import "time"

var CacheTTL = struct {
	Transcript time.Duration
}{
	Transcript: 24 * time.Hour,
}

var RetryConfig = struct {
	MaxAttempts            int
	LowReliabilityAttempts int
	RateLimitBackoffBase   time.Duration
	ServerErrorBackoffBase time.Duration
	GenericBackoffBase     time.Duration
}{
	MaxAttempts:            3,
	LowReliabilityAttempts: 5,               // raised floor for flaky platforms
	RateLimitBackoffBase:   5 * time.Second, // 5s, 10s, 20s, ...
	ServerErrorBackoffBase: 2 * time.Second, // 2s, 4s, 8s, ...
	GenericBackoffBase:     1 * time.Second, // 1s, 2s, 4s, ...
}

var AIConfig = struct {
	RequestTimeout time.Duration
	MaxTokens      int
	Temperature    float64
}{
	RequestTimeout: 60 * time.Second,
	MaxTokens:      4000,
	Temperature:    0.2,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var ScraperConfig = struct {
	RequestTimeout  time.Duration
	MaxFetchElapsed time.Duration
}{
	RequestTimeout:  10 * time.Second,
	MaxFetchElapsed: 12 * time.Second,
}

var SupadataConfig = struct {
	BaseURL        string
	RequestTimeout time.Duration
}{
	BaseURL:        "https://api.supadata.ai/v1",
	RequestTimeout: 30 * time.Second,
}

var BatchConfig = struct {
	MaxConcurrentURLs int
}{
	MaxConcurrentURLs: 4,
}

var ReadTimeConfig = struct {
	WordsPerMinute int
}{
	WordsPerMinute: 150,
}

var APIVersions = struct {
	Tailoring string
	Scraper   string
	Service   string
}{
	Tailoring: "2.0",
	Scraper:   "1.0",
	Service:   "2.1",
}
