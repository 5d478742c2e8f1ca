package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"parcelmama/internal/infrastructure/ratelimit"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
	"parcelmama/pkg/response"
)

// RateLimit throttles per caller: the authenticated email when present, else the client IP.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := CallerEmail(c)
			if key == "" {
				key = c.RealIP()
			}

			allowed, wait := limiter.Allow(key)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("Rate limit hit for %s on %s (retry in %ds)", key, c.Path(), retryAfter)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
