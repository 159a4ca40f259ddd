package ratelimit

import (
	"context"
	"time"
)

// Rate defines the rate limit configuration
type Rate struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for the rate limit
	Window time.Duration
}

// RateLimitInfo contains information about the current rate limit status
type RateLimitInfo struct {
	// Limit is the total number of requests allowed
	Limit int
	// Remaining is the number of requests remaining
	Remaining int
	// Reset is when the rate limit will reset
	Reset time.Time
}

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Allow checks if a request is allowed and returns rate limit info
	Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo)
	// Reset resets the rate limit for a key
	Reset(ctx context.Context, key string) error
}

// Common rate limits
var (
	// PublicAPILimit is for public registry endpoints (60 req/min)
	PublicAPILimit = Rate{
		Requests: 60,
		Window:   time.Minute,
	}

	// RedeemLimit throttles voucher redemption, a password-guessing surface
	// (10 req/min per client)
	RedeemLimit = Rate{
		Requests: 10,
		Window:   time.Minute,
	}

	// ConfirmLimit throttles payment confirmation (20 req/min per client)
	ConfirmLimit = Rate{
		Requests: 20,
		Window:   time.Minute,
	}
)
