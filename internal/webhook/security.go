package webhook

import (
	"crypto/subtle"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	return &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
	}
}

// ValidateSecretToken compares the token Telegram echoes back in
// X-Telegram-Bot-Api-Secret-Token with the configured one.
// An empty configured token accepts every request.
func (v *SecurityValidator) ValidateSecretToken(token string) error {
	if v.config.SecretToken == "" {
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(v.config.SecretToken)) != 1 {
		return ErrInvalidSecretToken
	}

	return nil
}

// ValidateIPAddress checks if the client IP is whitelisted. ip must come
// from a source that cannot be spoofed by the client, such as gin's
// ClientIP with trusted proxies configured.
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil // No IP restriction
	}

	parsed := net.ParseIP(ip)

	for _, allowedIP := range v.config.AllowedIPs {
		if ip == allowedIP {
			return nil
		}

		// Check CIDR range
		if strings.Contains(allowedIP, "/") && parsed != nil {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit enforces rate limiting
func (v *SecurityValidator) CheckRateLimit(source string) error {
	return v.rateLimiter.Allow(source)
}

// rateLimiter keeps one token bucket per source and forgets idle sources.
type rateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// newRateLimiter returns nil when requestsPerMin is not positive.
func newRateLimiter(requestsPerMin int) *rateLimiter {
	if requestsPerMin <= 0 {
		return nil
	}

	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxRateLimitSources, nil, rateLimiterTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst:    max(1, requestsPerMin/10),
	}
}

func (rl *rateLimiter) Allow(key string) error {
	if rl == nil {
		return nil
	}

	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	rl.mu.Unlock()

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}
