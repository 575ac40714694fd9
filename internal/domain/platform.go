package domain

// ReliabilityTier is a coarse label driving the retry budget for a platform.
type ReliabilityTier string

const (
	ReliabilityHigh    ReliabilityTier = "high"
	ReliabilityMedium  ReliabilityTier = "medium"
	ReliabilityLow     ReliabilityTier = "low"
	ReliabilityNone    ReliabilityTier = "none"
	ReliabilityUnknown ReliabilityTier = "unknown"
)

// PlatformInfo describes provider support for a video hosting platform.
// It is derived purely from the URL string and recomputed per request.
type PlatformInfo struct {
	Platform       string          `json:"platform"`
	Supported      bool            `json:"supported"`
	Reliability    ReliabilityTier `json:"reliability"`
	Recommendation string          `json:"recommendation"`
}
