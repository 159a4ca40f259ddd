package middlewares

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/womplatform/wom-registry/internal/app/models"
	"github.com/womplatform/wom-registry/pkg/ratelimit"
)

// RateLimitMiddleware applies sliding-window rate limits to protocol
// endpoints. Redemption and confirmation are password-guessing surfaces, so
// they carry tighter limits than the rest of the API.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// LimitByIP limits by client IP address.
func (m *RateLimitMiddleware) LimitByIP(limit ratelimit.Rate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return m.apply(c, "ip:"+c.IP(), limit)
	}
}

// LimitByOtc limits by the otc route parameter, falling back to the client
// IP when the route carries none.
func (m *RateLimitMiddleware) LimitByOtc(limit ratelimit.Rate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if otc := c.Params("otc"); otc != "" {
			key = "otc:" + otc
		}
		return m.apply(c, key, limit)
	}
}

func (m *RateLimitMiddleware) apply(c *fiber.Ctx, key string, limit ratelimit.Rate) error {
	allowed, info := m.limiter.Allow(c.UserContext(), key, limit)

	c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset.Unix(), 10))

	if !allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(models.WebResponse[any]{
			Success: false,
			Message: "Rate limit exceeded",
		})
	}

	return c.Next()
}
