// file: handler/ratelimit_middleware_test.go

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, limit, window, "rl:test"), mr
}

func okHandler(called *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called++
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_ExceedingLimitReturns429(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)

	called := 0
	wrapped := limiter.Middleware(okHandler(&called))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d should pass", i+1)
		assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 3, called)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 3, called, "limited request must not reach the handler")
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	success, code := decodeErrorEnvelope(t, rr.Body.Bytes())
	assert.False(t, success)
	assert.Equal(t, "RATE_LIMITED", code)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)

	called := 0
	wrapped := limiter.Middleware(okHandler(&called))

	req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:12345"

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// Window elapses, counter key expires, budget is fresh.
	mr.FastForward(time.Minute)

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, called)
}

func TestRateLimiter_IndependentBucketsPerClient(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	called := 0
	wrapped := limiter.Middleware(okHandler(&called))

	first := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	first.RemoteAddr = "10.0.0.1:12345"
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	// A different client keeps its own budget.
	second := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	second.RemoteAddr = "10.0.0.2:12345"
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)

	called := 0
	wrapped := limiter.Middleware(okHandler(&called))

	// An unreachable Redis must not block authentication.
	mr.Close()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 3, called)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, 1, time.Minute, "rl:test")

	called := 0
	wrapped := limiter.Middleware(okHandler(&called))

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 5, called)
}
