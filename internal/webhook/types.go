package webhook

import "time"

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	SecretToken     string   // Expected X-Telegram-Bot-Api-Secret-Token value (optional)
	AllowedIPs      []string // IP whitelist (optional), matched against the resolved client IP
	RateLimitPerMin int      // Max requests per minute per source, 0 disables
}

// DedupConfig controls how long delivered update ids are remembered.
type DedupConfig struct {
	Size int
	TTL  time.Duration
}

const (
	defaultDedupSize = 10000
	defaultDedupTTL  = 10 * time.Minute

	maxRateLimitSources = 1000
	rateLimiterTTL      = 5 * time.Minute
)
