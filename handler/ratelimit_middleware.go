// file: handler/ratelimit_middleware.go

package handler

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"go-nutrition-api/common"
	"go-nutrition-api/logger"
)

// RateLimiter applies a fixed-window request budget per client IP and route,
// counted in Redis so multiple server instances share the same budget. Auth
// endpoints get a stricter bucket than the rest of the API.
type RateLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	prefix  string
	enabled bool
}

// NewRateLimiter builds a limiter. A nil Redis client disables limiting,
// which keeps local development working without Redis.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		client:  client,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		enabled: client != nil,
	}
}

// Middleware wraps a handler with the rate limit check. Redis failures fail
// open: a broken limiter must not take down authentication.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.key(r)
		ctx := r.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			logger.Log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}

		remaining := int64(rl.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.limit) {
			ttl, err := rl.client.TTL(ctx, key).Result()
			if err == nil && ttl > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl/time.Second)+1))
			}
			appErr := common.NewAppError(http.StatusTooManyRequests, common.CodeRateLimited, "Too many requests", nil)
			appErr.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) key(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = fwd
	}
	return fmt.Sprintf("%s:%s:%s %s", rl.prefix, ip, r.Method, r.URL.Path)
}
