package config

import (
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8000
	cfg.OpenAI.APIKey = "sk-test"
	cfg.Supadata.APIKey = "sd-test"
	cfg.Gemini.EnableFallback = false
	cfg.Transcribe.MaxRetries = 3
	return cfg
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing openai key", func(c *Config) { c.OpenAI.APIKey = "" }},
		{"missing supadata key", func(c *Config) { c.Supadata.APIKey = "" }},
		{"fallback without gemini key", func(c *Config) { c.Gemini.EnableFallback = true }},
		{"zero retries", func(c *Config) { c.Transcribe.MaxRetries = 0 }},
		{"invalid port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateFallbackWithKey(t *testing.T) {
	cfg := validConfig()
	cfg.Gemini.EnableFallback = true
	cfg.Gemini.APIKey = "g-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("fallback with key rejected: %v", err)
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"", []string{}},
		{",,", []string{}},
	}

	for _, tt := range tests {
		got := parseCommaSeparated(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseCommaSeparated(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
