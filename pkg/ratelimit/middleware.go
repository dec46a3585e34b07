package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"salonly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware applies rate limiting to incoming requests
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client IP
		clientIP := getClientIP(c)

		// Determine rate limit type from route
		limitType := getRateLimitType(c.FullPath())

		// Check rate limit
		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// A broken limiter should not take the API down
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		// Check if rate limited
		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	// Health/monitoring endpoints
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth

	// Admin endpoints (catch-all for admin)
	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	// Authentication endpoints
	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	// Cancellation commit is the stricter bucket; preview stays with bookings
	case strings.Contains(path, "/bookings/") && strings.HasSuffix(path, "/cancel"):
		return RateLimitTypeCancel

	// Other booking-related endpoints
	case strings.Contains(path, "/booking") ||
		strings.Contains(path, "/cancellation"):
		return RateLimitTypeBooking

	// Public browsing endpoints
	case strings.Contains(path, "/salons"),
		strings.Contains(path, "/offerings"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts real client IP
func getClientIP(c *gin.Context) string {
	// Check X-Forwarded-For header
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
