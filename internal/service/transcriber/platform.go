// Package transcriber fetches video transcripts from the Supadata provider
// with platform-aware retry behavior.
package transcriber

import (
	"strings"

	"github.com/myrefera/script-tailor-go/internal/domain"
)

type platformRule struct {
	substrings []string
	info       domain.PlatformInfo
}

// Rules are ordered: the first substring match wins, so youtube.com is
// classified before any later rule gets a look.
var platformRules = []platformRule{
	{
		substrings: []string{"youtube.com", "youtu.be"},
		info: domain.PlatformInfo{
			Platform:       "YouTube",
			Supported:      true,
			Reliability:    domain.ReliabilityHigh,
			Recommendation: "Fully supported and reliable",
		},
	},
	{
		substrings: []string{"tiktok.com"},
		info: domain.PlatformInfo{
			Platform:       "TikTok",
			Supported:      true,
			Reliability:    domain.ReliabilityLow,
			Recommendation: "May fail due to rate limiting. Consider retry logic or alternative methods.",
		},
	},
	{
		substrings: []string{"x.com", "twitter.com"},
		info: domain.PlatformInfo{
			Platform:       "X (Twitter)",
			Supported:      true,
			Reliability:    domain.ReliabilityLow,
			Recommendation: "May fail due to access restrictions. Consider alternative methods.",
		},
	},
	{
		substrings: []string{"instagram.com"},
		info: domain.PlatformInfo{
			Platform:       "Instagram",
			Supported:      true,
			Reliability:    domain.ReliabilityMedium,
			Recommendation: "Supported but may have limitations",
		},
	},
	{
		substrings: []string{"vimeo.com"},
		info: domain.PlatformInfo{
			Platform:       "Vimeo",
			Supported:      false,
			Reliability:    domain.ReliabilityNone,
			Recommendation: "Not supported by Supadata. Use alternative transcription service.",
		},
	},
	{
		substrings: []string{"twitch.tv"},
		info: domain.PlatformInfo{
			Platform:       "Twitch",
			Supported:      false,
			Reliability:    domain.ReliabilityNone,
			Recommendation: "Not supported by Supadata. Use alternative transcription service.",
		},
	},
}

var unknownPlatform = domain.PlatformInfo{
	Platform:       "Unknown",
	Supported:      false,
	Reliability:    domain.ReliabilityUnknown,
	Recommendation: "Platform not recognized. Check if URL is valid and supported.",
}

// DetectPlatform classifies a video URL by hostname substring.
func DetectPlatform(url string) domain.PlatformInfo {
	lower := strings.ToLower(url)

	for _, rule := range platformRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.info
			}
		}
	}

	return unknownPlatform
}
