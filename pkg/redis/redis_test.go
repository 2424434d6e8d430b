package redis

import (
	"testing"

	"github.com/haoyuan-z/trigate/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	limiter := NewRateLimiter(client, "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(nil, EastmoneyRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != EastmoneyRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", EastmoneyRateLimit.Limit, remaining)
	}
}

func TestCache_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	cache := NewCache(client, "test")

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(nil, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "InstrumentListKey",
			fn:       func() string { return InstrumentListKey("2026-08-28") },
			expected: "instruments:2026-08-28",
		},
		{
			name:     "PriceHistoryKey",
			fn:       func() string { return PriceHistoryKey("600519", "2026-08-28") },
			expected: "bars:600519:2026-08-28",
		},
		{
			name:     "FundamentalsKey",
			fn:       func() string { return FundamentalsKey("600519") },
			expected: "fundamentals:600519",
		},
		{
			name:     "HeadlinesKey",
			fn:       func() string { return HeadlinesKey("sina") },
			expected: "headlines:sina",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
