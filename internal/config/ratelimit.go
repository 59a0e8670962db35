package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig drives the Redis token-bucket middleware. Two instances
// are loaded: a general bucket for the auth endpoints and a much stricter
// one for the password-reset flow, which is the classic enumeration and
// mail-bombing target.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig builds the general auth-route limiter config.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	return clampRateLimit(cfg)
}

// LoadResetRateLimitConfig builds the strict limiter applied to the
// forgot-password and reset-password endpoints: 3 requests per hour per IP
// by default, matching the product requirement rather than the general
// API budget.
func LoadResetRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RESET_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RESET_RATE_LIMIT_CAPACITY", 3),
		RefillTokens:   envInt("RESET_RATE_LIMIT_REFILL_TOKENS", 3),
		RefillInterval: envDur("RESET_RATE_LIMIT_REFILL_INTERVAL", time.Hour),
		TTL:            envDur("RESET_RATE_LIMIT_TTL", 2*time.Hour),
		KeyStrategy:    "ip_route",
		Prefix:         envStr("RESET_RATE_LIMIT_PREFIX", "rlreset"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	return clampRateLimit(cfg)
}

func clampRateLimit(cfg RateLimitConfig) RateLimitConfig {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
