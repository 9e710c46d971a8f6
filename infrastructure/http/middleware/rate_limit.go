package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const tooManyRequests = "Too many requests. Please try again later."

type RateLimitConfig struct {
	Attempts      int
	Window        time.Duration
	BlockDuration time.Duration
}

// RateLimitMiddleware counts attempts per client IP against a shared store and
// blocks the IP once the limit for a window is exhausted.
type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	config           RateLimitConfig
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, config RateLimitConfig, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		config:           config,
		logger:           logger,
	}
}

// Limit guards a route; scope separates the counters of different routes.
// Store failures let the request through.
func (m *RateLimitMiddleware) Limit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientIP := ClientIP(r)
			key := fmt.Sprintf("%s:ip:%s", scope, clientIP)

			blocked, err := m.rateLimitService.IsBlocked(ctx, key)
			if err != nil {
				m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
			}
			if blocked {
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", map[string]interface{}{
					"ip":   clientIP,
					"path": r.URL.Path,
				})
				m.reject(w)
				return
			}

			allowed, err := m.rateLimitService.CheckLimit(ctx, key, m.config.Attempts, m.config.Window)
			if err != nil {
				m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"key": key})
				allowed = true
			}
			if !allowed {
				if err := m.rateLimitService.Block(ctx, key, m.config.BlockDuration, "Rate limit exceeded"); err != nil {
					m.logger.Error(ctx, "Failed to block IP", err, map[string]interface{}{"key": key})
				}
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
					"ip":        clientIP,
					"path":      r.URL.Path,
					"userAgent": r.UserAgent(),
				})
				m.reject(w)
				return
			}

			if err := m.rateLimitService.Increment(ctx, key, m.config.Window); err != nil {
				m.logger.Error(ctx, "Failed to count attempt", err, map[string]interface{}{"key": key})
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *RateLimitMiddleware) reject(w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(int(m.config.BlockDuration.Seconds())))
	response.TooManyRequests(w, tooManyRequests)
}

// IPLimiter decides whether one more request from ip may proceed.
type IPLimiter interface {
	Allow(ip string) bool
}

// Throttle applies a per-IP token bucket to every request.
func Throttle(limiter IPLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				response.TooManyRequests(w, tooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
