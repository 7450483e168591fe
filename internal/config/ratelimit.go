package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig defines the fixed-window limits applied to the reset
// endpoints. Each bucket caps how many requests a single client IP may make
// within one window; the buckets are independent of each other and of the
// per-account lockout.
type RateLimitConfig struct {
	Enabled         bool
	Window          time.Duration // window length shared by both buckets
	RequestResetMax int           // request-reset attempts per window
	ConfirmResetMax int           // confirm-reset attempts per window
	Prefix          string        // key prefix in shared Redis
}

func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:         envBool("RATE_LIMIT_ENABLED", true),
		Window:          envDur("RATE_LIMIT_WINDOW", 10*time.Minute),
		RequestResetMax: envInt("RATE_LIMIT_REQUEST_RESET", 5),
		ConfirmResetMax: envInt("RATE_LIMIT_CONFIRM_RESET", 3),
		Prefix:          envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if def.Window <= 0 {
		def.Window = 10 * time.Minute
	}
	if def.RequestResetMax < 1 {
		def.RequestResetMax = 1
	}
	if def.ConfirmResetMax < 1 {
		def.ConfirmResetMax = 1
	}
	return def
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
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
