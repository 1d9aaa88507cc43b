package redis

import (
	"context"
	"testing"

	"github.com/wonny/siphon/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(config.RedisConfig{Enabled: false})
	cache := NewCache(client, "siphon")

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(context.Background(), "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(context.Background(), "key", "value", TTLShort); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestCache_GetOrSet_Disabled(t *testing.T) {
	client, _ := New(config.RedisConfig{Enabled: false})
	cache := NewCache(client, "siphon")

	// The loader always runs on a cache miss
	calls := 0
	var out []float64
	err := cache.GetOrSet(context.Background(), "bars", &out, TTLDaily, func() (interface{}, error) {
		calls++
		return []float64{10.5, 10.8}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected loader to run once, ran %d times", calls)
	}
	if len(out) != 2 || out[1] != 10.8 {
		t.Errorf("Expected loaded value in dest, got %v", out)
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "SpotKey",
			fn:       func() string { return SpotKey("2026-08-28") },
			expected: "spot:2026-08-28",
		},
		{
			name:     "BarsKey",
			fn:       func() string { return BarsKey("600519", "2026-08-28") },
			expected: "bars:600519:2026-08-28",
		},
		{
			name:     "IndexKey",
			fn:       func() string { return IndexKey("sh000001", "2026-08-28") },
			expected: "index:sh000001:2026-08-28",
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
