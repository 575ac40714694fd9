package transcriber

import (
	"testing"

	"github.com/myrefera/script-tailor-go/internal/domain"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url         string
		platform    string
		supported   bool
		reliability domain.ReliabilityTier
	}{
		{"https://www.youtube.com/watch?v=abc123", "YouTube", true, domain.ReliabilityHigh},
		{"https://youtu.be/abc123", "YouTube", true, domain.ReliabilityHigh},
		{"HTTPS://WWW.YOUTUBE.COM/watch?v=abc", "YouTube", true, domain.ReliabilityHigh},
		{"https://www.tiktok.com/@user/video/123", "TikTok", true, domain.ReliabilityLow},
		{"https://m.tiktok.com/v/123", "TikTok", true, domain.ReliabilityLow},
		{"https://x.com/user/status/123", "X (Twitter)", true, domain.ReliabilityLow},
		{"https://twitter.com/user/status/123", "X (Twitter)", true, domain.ReliabilityLow},
		{"https://www.instagram.com/reel/abc/", "Instagram", true, domain.ReliabilityMedium},
		{"https://vimeo.com/12345", "Vimeo", false, domain.ReliabilityNone},
		{"https://www.twitch.tv/somechannel", "Twitch", false, domain.ReliabilityNone},
		{"https://example.com/video.mp4", "Unknown", false, domain.ReliabilityUnknown},
		{"not a url", "Unknown", false, domain.ReliabilityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			info := DetectPlatform(tt.url)
			if info.Platform != tt.platform {
				t.Errorf("platform = %q, want %q", info.Platform, tt.platform)
			}
			if info.Supported != tt.supported {
				t.Errorf("supported = %v, want %v", info.Supported, tt.supported)
			}
			if info.Reliability != tt.reliability {
				t.Errorf("reliability = %q, want %q", info.Reliability, tt.reliability)
			}
			if info.Recommendation == "" {
				t.Error("recommendation must not be empty")
			}
		})
	}
}
